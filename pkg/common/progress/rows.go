package progress

import (
	"time"

	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
)

const timestampLayout = "2006/01/02 15:04:05"

// rowSet keeps progress entries in insertion order, capped at max.
// Callers hold their own lock.
type rowSet struct {
	max   int
	info  map[string]*iface.ProgressInfo
	order []string
}

func newRowSet(max int) rowSet {
	return rowSet{
		max:   max,
		info:  make(map[string]*iface.ProgressInfo),
		order: make([]string, 0, max),
	}
}

// update records pct for id and reports whether the row moved forward.
// Progress never goes backwards and ids past the cap are dropped.
func (r *rowSet) update(id string, pct int, label string) (*iface.ProgressInfo, bool) {
	ts := time.Now().Format(timestampLayout)
	if info, ok := r.info[id]; ok {
		if pct <= info.Percentage {
			return info, false
		}
		info.Percentage, info.DisplayText, info.Timestamp = pct, label, ts
		return info, true
	}
	if len(r.info) >= r.max {
		return nil, false
	}
	info := &iface.ProgressInfo{Percentage: pct, DisplayText: label, Timestamp: ts}
	r.info[id] = info
	r.order = append(r.order, id)
	return info, true
}

func (r *rowSet) rows() []iface.ProgressRow {
	rows := make([]iface.ProgressRow, 0, len(r.order))
	for _, id := range r.order {
		info := r.info[id]
		rows = append(rows, iface.ProgressRow{Module: id, Pct: info.Percentage, Label: info.DisplayText})
	}
	return rows
}

func (r *rowSet) reset() {
	r.info = make(map[string]*iface.ProgressInfo)
	r.order = r.order[:0]
}
