package attendance

import "github.com/kozaktomas/face-attendance/internal/store"

// Stats are the derived aggregates for one calendar date. They are
// recomputed from the day's records on every request; nothing here is
// persisted, so the log remains the only source of truth.
type Stats struct {
	Date               string `json:"date"`
	TotalRecords       int    `json:"totalRecords"`
	CheckinCount       int    `json:"checkinCount"`
	CheckoutCount      int    `json:"checkoutCount"`
	UniquePeople       int    `json:"uniquePeople"`
	CurrentlyCheckedIn int    `json:"currentlyCheckedIn"`
}

// moreRecent reports whether a is the later event. Identical timestamps
// are broken by attendance id so the winner is deterministic no matter
// what order the records arrived in.
func moreRecent(a, b *store.AttendanceRecord) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp > b.Timestamp
	}
	return a.AttendanceID > b.AttendanceID
}

// computeStats reconciles one day's records into aggregates. Occupancy is
// defined purely by each person's most recent event of the day, not by a
// running counter, so out-of-order arrival of events cannot skew it.
func computeStats(date string, records []store.AttendanceRecord) *Stats {
	stats := &Stats{Date: date}
	stats.TotalRecords = len(records)

	checkinPeople := make(map[string]struct{})
	latest := make(map[string]*store.AttendanceRecord)

	for i := range records {
		record := &records[i]
		switch record.Type {
		case store.TypeCheckin:
			stats.CheckinCount++
			checkinPeople[record.FaceID] = struct{}{}
		case store.TypeCheckout:
			stats.CheckoutCount++
		}
		if current, ok := latest[record.FaceID]; !ok || moreRecent(record, current) {
			latest[record.FaceID] = record
		}
	}

	stats.UniquePeople = len(checkinPeople)
	for _, record := range latest {
		if record.Type == store.TypeCheckin {
			stats.CurrentlyCheckedIn++
		}
	}
	return stats
}
