package store

import "sort"

// SortNewestFirst orders records by timestamp descending. Ties on identical
// timestamps are broken by attendance id descending so the order is
// deterministic regardless of how the store returned the records.
func SortNewestFirst(records []AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp > records[j].Timestamp
		}
		return records[i].AttendanceID > records[j].AttendanceID
	})
}
