package testutil

// WithStandardClinic adds two patients, two doctors (D2 unavailable) and one
// appointment on date between P1 and D1.
func (b *Builder) WithStandardClinic(date string) *Builder {
	return b.
		WithPatient("P1", PatientName("Jane Doe"), PatientAge(30), PatientGender("female"), Disease("Flu")).
		WithPatient("P2", PatientName("Max Moe"), PatientAge(12), PatientGender("male"), Disease("Cold")).
		WithDoctor("D1", DoctorName("John Roe"), DoctorAge(45), Specialty("Cardiology")).
		WithDoctor("D2", DoctorName("Ann Poe"), DoctorAge(52), Specialty("Dermatology"), Unavailable()).
		WithAppointment("A1", "P1", "D1", date)
}
