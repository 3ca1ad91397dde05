package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	academicsDTO "schoolku_backend/internals/features/school/academics/dto"
	academicsModel "schoolku_backend/internals/features/school/academics/model"
	helper "schoolku_backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

/* =========================================================
   SUBJECTS
   GET /api/u/subjects?class_id=&year=
   ========================================================= */
func (h *SubjectController) ListSubjects(c *fiber.Ctx) error {
	tx := h.DB.WithContext(c.UserContext()).Model(&academicsModel.SubjectModel{})

	if raw := strings.TrimSpace(c.Query("class_id")); raw != "" {
		classID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "class_id tidak valid")
		}
		tx = tx.Where("subject_class_id = ?", classID)
	}
	if year := strings.TrimSpace(c.Query("year")); year != "" {
		tx = tx.Where("subject_academic_year = ?", year)
	}

	var rows []academicsModel.SubjectModel
	if err := tx.Order("subject_name ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data mapel")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// POST /api/a/subjects
func (h *SubjectController) CreateSubject(c *fiber.Ctx) error {
	var req academicsDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var cnt int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.SubjectModel{}).
		Where("subject_class_id = ? AND subject_academic_year = ? AND lower(subject_name) = lower(?)",
			req.ClassID, req.AcademicYear, req.Name).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi mapel")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusConflict, "Mapel sudah terdaftar untuk kelas & tahun ini")
	}

	m := academicsModel.SubjectModel{
		SubjectClassID:      req.ClassID,
		SubjectAcademicYear: req.AcademicYear,
		SubjectName:         req.Name,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat mapel")
	}
	return helper.JsonCreated(c, "Mapel berhasil dibuat", m)
}

// DELETE /api/a/subjects/:id
func (h *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("subject_id = ?", id).
		Delete(&academicsModel.SubjectModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus mapel")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Mapel tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Mapel dihapus", fiber.Map{"subject_id": id})
}

/* =========================================================
   EXAMS
   ========================================================= */

// GET /api/u/exams
func (h *SubjectController) ListExams(c *fiber.Ctx) error {
	var rows []academicsModel.ExamModel
	if err := h.DB.WithContext(c.UserContext()).
		Order("exam_name ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data ujian")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// POST /api/a/exams
func (h *SubjectController) CreateExam(c *fiber.Ctx) error {
	var req academicsDTO.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var cnt int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.ExamModel{}).
		Where("lower(exam_name) = lower(?)", req.Name).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi ujian")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusConflict, "Ujian dengan nama ini sudah ada")
	}

	m := academicsModel.ExamModel{ExamName: req.Name}
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat ujian")
	}
	return helper.JsonCreated(c, "Ujian berhasil dibuat", m)
}

// DELETE /api/a/exams/:id
func (h *SubjectController) DeleteExam(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("exam_id = ?", id).
		Delete(&academicsModel.ExamModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus ujian")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Ujian tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Ujian dihapus", fiber.Map{"exam_id": id})
}
