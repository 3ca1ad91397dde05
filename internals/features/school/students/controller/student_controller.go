package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	studentDTO "schoolku_backend/internals/features/school/students/dto"
	studentService "schoolku_backend/internals/features/school/students/service"
	helper "schoolku_backend/internals/helpers"
)

type StudentController struct {
	DB      *gorm.DB
	Service *studentService.EnrollmentService
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Service: studentService.NewEnrollmentService(db)}
}

// mapServiceError memetakan sentinel error service ke status HTTP.
func mapServiceError(err error, fallback string) error {
	switch {
	case errors.Is(err, studentService.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	case errors.Is(err, studentService.ErrDuplicateRollNumber):
		return fiber.NewError(fiber.StatusConflict, "Roll number sudah dipakai di section tersebut")
	case errors.Is(err, studentService.ErrDuplicatePlacement):
		return fiber.NewError(fiber.StatusConflict, "Siswa sudah terdaftar di tahun ajaran tersebut")
	case errors.Is(err, studentService.ErrInvalidDemotion):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Tahun ajaran tujuan tidak boleh mundur")
	case errors.Is(err, studentService.ErrDeletePending):
		return fiber.NewError(fiber.StatusConflict, "Penghapusan sudah dijadwalkan")
	case errors.Is(err, studentService.ErrStudentEnrolled):
		return fiber.NewError(fiber.StatusConflict, "Siswa masih punya riwayat enrollment")
	case errors.Is(err, studentService.ErrAlreadyCommitted):
		return fiber.NewError(fiber.StatusGone, "Penghapusan sudah permanen")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

/* =========================================================
   ADMISSION
   POST /api/t/students/admit
   ========================================================= */
func (h *StudentController) AdmitStudent(c *fiber.Ctx) error {
	var req studentDTO.AdmitStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	student, enrollment, err := h.Service.Admit(&req)
	if err != nil {
		return mapServiceError(err, "Gagal mendaftarkan siswa")
	}
	return helper.JsonCreated(c, "Siswa berhasil didaftarkan", fiber.Map{
		"student":    studentDTO.FromStudentModel(student),
		"enrollment": enrollment,
	})
}

/* =========================================================
   DETAIL
   GET /api/t/students/:id
   ========================================================= */
func (h *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	student, err := h.Service.GetStudent(id)
	if err != nil {
		return mapServiceError(err, "Gagal mengambil data siswa")
	}
	history, err := h.Service.StudentEnrollmentHistory(id)
	if err != nil {
		return mapServiceError(err, "Gagal mengambil riwayat enrollment")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"student":     studentDTO.FromStudentModel(student),
		"enrollments": history,
	})
}

/* =========================================================
   LOOKUP BY NOMOR INDUK
   GET /api/t/students/lookup?unique_id=ABC250001
   ========================================================= */
func (h *StudentController) LookupStudent(c *fiber.Ctx) error {
	uniqueID := c.Query("unique_id")
	if uniqueID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "unique_id wajib diisi")
	}
	student, err := h.Service.FindStudentByUniqueID(uniqueID)
	if err != nil {
		return mapServiceError(err, "Gagal mencari siswa")
	}
	history, err := h.Service.StudentEnrollmentHistory(student.StudentID)
	if err != nil {
		return mapServiceError(err, "Gagal mengambil riwayat enrollment")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"student":     studentDTO.FromStudentModel(student),
		"enrollments": history,
	})
}

/* =========================================================
   DIREKTORI LINTAS TAHUN
   GET /api/a/students/directory?search=
   ========================================================= */
func (h *StudentController) ListStudentDirectory(c *fiber.Ctx) error {
	rows, err := h.Service.ListStudentDirectory(c.Query("search"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil direktori siswa")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

/* =========================================================
   HARD DELETE (hanya siswa tanpa riwayat enrollment)
   DELETE /api/a/students/:id
   ========================================================= */
func (h *StudentController) HardDeleteStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := h.Service.HardDeleteStudent(id); err != nil {
		return mapServiceError(err, "Gagal menghapus siswa")
	}
	return helper.JsonDeleted(c, "Siswa dihapus permanen", fiber.Map{"student_id": id})
}

/* =========================================================
   UPDATE BIODATA
   PATCH /api/t/students/:id
   ========================================================= */
func (h *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req studentDTO.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	student, err := h.Service.UpdateStudent(id, &req)
	if err != nil {
		return mapServiceError(err, "Gagal mengubah data siswa")
	}
	return helper.JsonUpdated(c, "Data siswa diperbarui", studentDTO.FromStudentModel(student))
}
