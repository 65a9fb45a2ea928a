package application

import "time"

// Seed returns the demo applications, submitted relative to now.
func Seed(now time.Time) []Application {
	now = now.UTC()
	day := 24 * time.Hour
	return []Application{
		{
			ID:                "app1",
			StudentID:         "s1",
			StudentName:       "MKCE Student",
			StudentRollNumber: "21CS001",
			Type:              TypeLeave,
			Status:            StatusPending,
			Reason:            "Family function",
			Dates:             "2024-08-15 to 2024-08-16",
			SubmittedAt:       now,
			Department:        "CSE",
			Batch:             "2021-2025",
		},
		{
			ID:                "app2",
			StudentID:         "s2",
			StudentName:       "Jane Roe",
			StudentRollNumber: "22EC015",
			Type:              TypeOnDuty,
			Status:            StatusPending,
			Reason:            "Attending technical symposium",
			Dates:             "2024-09-01",
			SubmittedAt:       now,
			Department:        "ECE",
			Batch:             "2022-2026",
			FacultyAssignedID: "f2",
		},
		{
			ID:                "app3",
			StudentID:         "s1",
			StudentName:       "MKCE Student",
			StudentRollNumber: "21CS001",
			Type:              TypeBonafide,
			Status:            StatusApproved,
			Reason:            "Passport Application",
			Dates:             "N/A",
			SubmittedAt:       now.Add(-2 * day),
			Remarks:           "Approved. Collect from office.",
			Department:        "CSE",
			Batch:             "2021-2025",
			FacultyActionByID: "f1",
		},
		{
			ID:                "app4",
			StudentID:         "s3",
			StudentName:       "John Smith",
			StudentRollNumber: "21CS042",
			Type:              TypeOnDuty,
			Status:            StatusPending,
			Reason:            "Representing college in hackathon",
			Dates:             "2024-09-05 to 2024-09-06",
			SubmittedAt:       now.Add(-day),
			Department:        "CSE",
			Batch:             "2021-2025",
			FacultyAssignedID: "f1",
		},
	}
}
