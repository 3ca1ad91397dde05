package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentDTO "schoolku_backend/internals/features/school/students/dto"
	studentService "schoolku_backend/internals/features/school/students/service"
	helper "schoolku_backend/internals/helpers"
)

type PromotionController struct {
	DB      *gorm.DB
	Service *studentService.PromotionService
}

func NewPromotionController(db *gorm.DB) *PromotionController {
	return &PromotionController{DB: db, Service: studentService.NewPromotionService(db)}
}

/* =========================================================
   PROMOTE BATCH (atomik, satu gagal semua batal)
   POST /api/a/promotions
   ========================================================= */
func (h *PromotionController) PromoteStudents(c *fiber.Ctx) error {
	var req studentDTO.PromoteStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	count, err := h.Service.PromoteStudents(&req)
	if err != nil {
		return mapServiceError(err, "Gagal mempromosikan siswa")
	}
	log.Printf("[PROMOTE] %d siswa -> %s\n", count, req.ToAcademicYear)
	return helper.JsonCreated(c, "Promosi berhasil", studentDTO.PromoteStudentsResponse{
		PromotedCount:  count,
		ToAcademicYear: req.ToAcademicYear,
	})
}

/* =========================================================
   DAFTAR SISWA YANG SUDAH DI TAHUN TUJUAN
   GET /api/a/promotions/promoted?to_year=2025-26
   ========================================================= */
func (h *PromotionController) ListPromotedStudents(c *fiber.Ctx) error {
	toYear := c.Query("to_year")
	if toYear == "" {
		return fiber.NewError(fiber.StatusBadRequest, "to_year wajib diisi")
	}
	ids, err := h.Service.PromotedStudentIDs(toYear)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data promosi")
	}
	return helper.JsonList(c, "ok", ids, nil)
}
