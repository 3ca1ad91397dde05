package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
	studentDTO "schoolku_backend/internals/features/school/students/dto"
	studentService "schoolku_backend/internals/features/school/students/service"
	helper "schoolku_backend/internals/helpers"
)

type EnrollmentController struct {
	DB      *gorm.DB
	Service *studentService.EnrollmentService
	Deleter *studentService.DeferredDeleteService
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{
		DB:      db,
		Service: studentService.NewEnrollmentService(db),
		Deleter: studentService.NewDeferredDeleteService(db, configs.DeleteGraceWindow()),
	}
}

/* =========================================================
   LIST (filter tahun/kelas/section + search nama/nomor induk)
   GET /api/t/enrollments?year=&class_id=&section_id=&search=
   ========================================================= */
func (h *EnrollmentController) ListEnrollments(c *fiber.Ctx) error {
	var rows []studentDTO.EnrollmentResponse
	err := database.WithRetry(func() error {
		var e error
		rows, e = h.Service.ListEnrollments(studentService.EnrollmentFilter{
			AcademicYear: c.Query("year"),
			ClassID:      c.Query("class_id"),
			SectionID:    c.Query("section_id"),
			Search:       c.Query("search"),
		})
		return e
	})
	if err != nil {
		if database.IsTransient(err) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Database sedang tidak bisa diakses")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data enrollment")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

/* =========================================================
   CREATE
   POST /api/t/enrollments
   ========================================================= */
func (h *EnrollmentController) CreateEnrollment(c *fiber.Ctx) error {
	var req studentDTO.CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	enrollment, err := h.Service.CreateEnrollment(&req)
	if err != nil {
		return mapServiceError(err, "Gagal membuat enrollment")
	}
	return helper.JsonCreated(c, "Enrollment dibuat", enrollment)
}

/* =========================================================
   UPDATE (pindah kelas/section/roll)
   PATCH /api/t/enrollments/:id
   ========================================================= */
func (h *EnrollmentController) UpdateEnrollment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req studentDTO.UpdateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	enrollment, err := h.Service.UpdateEnrollment(id, &req)
	if err != nil {
		return mapServiceError(err, "Gagal mengubah enrollment")
	}
	return helper.JsonUpdated(c, "Enrollment diperbarui", enrollment)
}

/* =========================================================
   DELETE (dijadwalkan, bisa dibatalkan selama grace window)
   DELETE /api/t/enrollments/:id
   ========================================================= */
func (h *EnrollmentController) DeleteEnrollment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	handle, err := h.Deleter.Schedule(id)
	if err != nil {
		return mapServiceError(err, "Gagal menghapus enrollment")
	}
	return helper.JsonDeleted(c, "Enrollment dihapus, bisa dibatalkan sebentar lagi", fiber.Map{
		"enrollment_id": id,
		"undo_handle":   handle,
		"grace_seconds": int(configs.DeleteGraceWindow().Seconds()),
	})
}

/* =========================================================
   UNDO DELETE
   POST /api/t/enrollments/:id/undo
   ========================================================= */
func (h *EnrollmentController) UndoDeleteEnrollment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req struct {
		UndoHandle string `json:"undo_handle" validate:"required,uuid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	handle, err := uuid.Parse(req.UndoHandle)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "undo_handle tidak valid")
	}

	if err := h.Deleter.Cancel(id, handle); err != nil {
		return mapServiceError(err, "Gagal membatalkan penghapusan")
	}
	return helper.JsonOK(c, "Penghapusan dibatalkan", fiber.Map{"enrollment_id": id})
}
