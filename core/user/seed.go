package user

// Demo records every empty slot starts from.

func SeedStudents() []Student {
	return []Student{
		{
			ID:           "s1",
			Name:         "MKCE Student",
			RollNumber:   "21CS001",
			Department:   "CSE",
			Contact:      "123-456-7890",
			Address:      "123 College Road, Karur, Tamil Nadu",
			CGPA:         8.5,
			Email:        "mkce@2025",
			CareerPath:   "Placement",
			Batch:        "2021-2025",
			AcademicYear: "4th Year",
			StudentType:  Hosteller,
			Fees: []FeeItem{
				{Type: FeeCollege, Amount: 95000, Status: FeeUnpaid},
				{Type: FeeHostel, Amount: 25000, Status: FeeUnpaid},
				{Type: FeeMess, Amount: 15000, Status: FeePaid, PaymentDate: "2024-07-01", TransactionID: "TXN12345", PaymentMode: ModeUPI},
				{Type: FeeExam, Amount: 2000, Status: FeeUnpaid},
				{Type: FeeAssociation, Amount: 500, Status: FeeUnpaid},
			},
		},
		{
			ID:           "s2",
			Name:         "Jane Roe",
			RollNumber:   "22EC015",
			Department:   "ECE",
			Contact:      "098-765-4321",
			Address:      "456 University Ave, Erode, Tamil Nadu",
			CGPA:         9.1,
			Email:        "jane.roe@example.com",
			CareerPath:   "Higher Studies",
			Batch:        "2022-2026",
			AcademicYear: "3rd Year",
			StudentType:  DayScholar,
			Fees: []FeeItem{
				{Type: FeeCollege, Amount: 92000, Status: FeePaid, PaymentDate: "2024-07-10", TransactionID: "TXN67890", PaymentMode: ModeNetBanking},
				{Type: FeeExam, Amount: 2000, Status: FeePaid, PaymentDate: "2024-07-11", TransactionID: "TXN67891", PaymentMode: ModeUPI},
			},
		},
		{
			ID:           "s3",
			Name:         "John Smith",
			RollNumber:   "21CS042",
			Department:   "CSE",
			Contact:      "555-555-5555",
			Address:      "789 Tech Park, Coimbatore, Tamil Nadu",
			CGPA:         7.8,
			Email:        "john.smith@example.com",
			CareerPath:   "Entrepreneur",
			Batch:        "2021-2025",
			AcademicYear: "4th Year",
			StudentType:  DayScholar,
			Fees: []FeeItem{
				{Type: FeeCollege, Amount: 95000, Status: FeeUnpaid},
				{Type: FeeBus, Amount: 8000, Status: FeePaid, PaymentDate: "2024-06-25", TransactionID: "TXN11223", PaymentMode: ModeBankTransfer},
				{Type: FeeMiscellaneous, Amount: 1500, Status: FeeUnpaid},
			},
		},
	}
}

func SeedFaculty() []Faculty {
	return []Faculty{
		{ID: "f1", Name: "MKCE Faculty", Department: "CSE", Email: "faculty@mkce.com", FacultyID: "F001"},
		{ID: "f2", Name: "Dr. Anna Lee", Department: "ECE", Email: "anna.lee@example.com", FacultyID: "F002"},
	}
}

func SeedStudentCredentials() Credentials {
	return Credentials{"s1": "mkce", "s2": "password123", "s3": "password456"}
}

func SeedFacultyCredentials() Credentials {
	return Credentials{"f1": "fac.mkce", "f2": "password123"}
}
