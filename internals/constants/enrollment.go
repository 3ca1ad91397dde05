package constants

// Status enrollment — mengikuti nilai yang tersimpan di tabel enrollments.
const (
	EnrollmentStatusNewAdmission = "New Admission"
	EnrollmentStatusPromoted     = "Promoted"
)

// Kunci app_settings
const (
	SettingAllowTeachersManageStudents = "allow_teachers_manage_students"
)
