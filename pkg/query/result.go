package query

import "github.com/Khoshkhah/h3-routing-platform/pkg/store"

// Result is the uniform return shape of every algorithm in this package:
// the cost, the shortcut-level path (a sequence of base-edge ids, each
// adjacent pair connected by one shortcut), and the same path expanded
// down to the individual base edges via the dataset's ViaLookup.
type Result struct {
	Success      bool
	Cost         uint32
	ShortcutPath []store.EdgeID
	ExpandedPath []store.EdgeID
}

// notReachable is the canonical failure result every algorithm returns
// when source and target are disconnected under its filtering rules — a
// QueryNotReachable condition, not an error, per the error-kind
// propagation policy (pkg/routeerr).
var notReachable = Result{}

// reconstructFwd walks PredFwd from m back to its search root (where
// Pred[x] == x), returning the path root...m in that order.
func reconstructFwd(pred []store.EdgeID, m store.EdgeID) []store.EdgeID {
	var rev []store.EdgeID
	for cur := m; ; {
		rev = append(rev, cur)
		p := pred[cur]
		if p == cur {
			break
		}
		cur = p
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// reconstructBwd walks PredBwd from m forward to its search root,
// returning the path m...root in that order (PredBwd points toward the
// target, unlike PredFwd which points toward the source).
func reconstructBwd(pred []store.EdgeID, m store.EdgeID) []store.EdgeID {
	var out []store.EdgeID
	for cur := m; ; {
		out = append(out, cur)
		p := pred[cur]
		if p == cur {
			break
		}
		cur = p
	}
	return out
}

// joinMeeting stitches the forward and backward half-paths at meeting
// node m into one shortcut-level path, without duplicating m.
func joinMeeting(predFwd, predBwd []store.EdgeID, m store.EdgeID) []store.EdgeID {
	fwd := reconstructFwd(predFwd, m)
	bwd := reconstructBwd(predBwd, m)
	return append(fwd, bwd[1:]...)
}
