package domain

var (
	ScheduleDays = []string{"MON", "TUE", "WED", "THU", "FRI"}

	ScheduleSlots = []string{
		"07:30 - 09:00",
		"09:15 - 10:45",
		"11:00 - 12:30",
		"12:45 - 14:15",
		"14:30 - 16:00",
		"16:15 - 17:45",
		"18:00 - 19:30",
	}
)

type ScheduleGrid struct {
	Slots []string
	Rows  []ScheduleRow
}

type ScheduleRow struct {
	Day   string
	Cells []ScheduleCell
}

type ScheduleCell struct {
	Slot    string
	Entries []ScheduleEntry
}

// BuildScheduleGrid places each entry in the cell whose day and slot match
// exactly. Entries outside the fixed grid are dropped.
func BuildScheduleGrid(entries []ScheduleEntry) ScheduleGrid {
	grid := ScheduleGrid{
		Slots: ScheduleSlots,
		Rows:  make([]ScheduleRow, 0, len(ScheduleDays)),
	}
	for _, day := range ScheduleDays {
		row := ScheduleRow{Day: day, Cells: make([]ScheduleCell, 0, len(ScheduleSlots))}
		for _, slot := range ScheduleSlots {
			cell := ScheduleCell{Slot: slot}
			for _, e := range entries {
				if e.DayOfWeek == day && e.TimeSlot == slot {
					cell.Entries = append(cell.Entries, e)
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
