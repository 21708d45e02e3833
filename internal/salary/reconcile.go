package salary

// Days is the partition of the accounting month into attended, unpaid leave
// and paid leave days.
type Days struct {
	Attendance  int
	LeaveUnpaid int
	PaidLeave   int
}

// FullMonth is the default partition of a freshly generated record.
func FullMonth() Days {
	return Days{Attendance: DaysPerMonth}
}

// FromAttendance applies a direct attendance edit. The remaining unpaid days
// become unpaid leave.
func FromAttendance(attendance, paidLeave int) Days {
	paid := clamp(paidLeave, 0, DaysPerMonth)
	att := clamp(attendance, 0, DaysPerMonth-paid)
	return Days{
		Attendance:  att,
		LeaveUnpaid: DaysPerMonth - paid - att,
		PaidLeave:   paid,
	}
}

// FromUnpaidLeave applies a direct unpaid leave edit.
func FromUnpaidLeave(leave, paidLeave int) Days {
	paid := clamp(paidLeave, 0, DaysPerMonth)
	l := clamp(leave, 0, DaysPerMonth-paid)
	return Days{
		Attendance:  DaysPerMonth - paid - l,
		LeaveUnpaid: l,
		PaidLeave:   paid,
	}
}

// FromLeaveCount derives the partition from the number of recorded leave
// entries. The count is kept as is even when it exceeds the month.
func FromLeaveCount(count, paidLeave int) Days {
	if count < 0 {
		count = 0
	}
	paid := clamp(paidLeave, 0, DaysPerMonth)
	att := DaysPerMonth - paid - count
	if att < 0 {
		att = 0
	}
	return Days{
		Attendance:  att,
		LeaveUnpaid: count,
		PaidLeave:   paid,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
