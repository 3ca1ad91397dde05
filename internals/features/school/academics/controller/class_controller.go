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

type ClassController struct {
	DB *gorm.DB
}

/* =========================================================
   LIST
   GET /api/u/classes?year=2025
   ========================================================= */
func (h *ClassController) ListClasses(c *fiber.Ctx) error {
	tx := h.DB.WithContext(c.UserContext()).Model(&academicsModel.ClassModel{})

	if year := strings.TrimSpace(c.Query("year")); year != "" {
		tx = tx.Where("class_academic_year = ?", year)
	}

	var rows []academicsModel.ClassModel
	if err := tx.Order("class_name ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data kelas")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

/* =========================================================
   CREATE
   POST /api/a/classes
   ========================================================= */
func (h *ClassController) CreateClass(c *fiber.Ctx) error {
	var req academicsDTO.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	// nama kelas unik per tahun
	var cnt int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.ClassModel{}).
		Where("lower(class_name) = lower(?) AND class_academic_year = ?", req.Name, req.AcademicYear).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi kelas")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusConflict, "Kelas dengan nama ini sudah ada di tahun tersebut")
	}

	m := academicsModel.ClassModel{
		ClassName:         req.Name,
		ClassAcademicYear: req.AcademicYear,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat kelas")
	}
	return helper.JsonCreated(c, "Kelas berhasil dibuat", m)
}

/* =========================================================
   DELETE (tolak kalau masih punya section)
   DELETE /api/a/classes/:id
   ========================================================= */
func (h *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var cnt int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.SectionModel{}).
		Where("section_class_id = ?", id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek section")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusConflict, "Kelas masih punya section, hapus section dulu")
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("class_id = ?", id).
		Delete(&academicsModel.ClassModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus kelas")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Kelas dihapus", fiber.Map{"class_id": id})
}

/* =========================================================
   SECTIONS
   ========================================================= */

// GET /api/u/sections?class_id=...
func (h *ClassController) ListSections(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Query("class_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "class_id tidak valid")
	}

	var rows []academicsModel.SectionModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("section_class_id = ?", classID).
		Order("section_name ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data section")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// POST /api/a/sections
func (h *ClassController) CreateSection(c *fiber.Ctx) error {
	var req academicsDTO.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	// parent harus ada
	var parent academicsModel.ClassModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("class_id = ?", req.ClassID).
		First(&parent).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Kelas induk tidak ditemukan")
	}

	var cnt int64
	if err := h.DB.WithContext(c.UserContext()).
		Model(&academicsModel.SectionModel{}).
		Where("section_class_id = ? AND lower(section_name) = lower(?)", req.ClassID, req.Name).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek duplikasi section")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusConflict, "Section dengan nama ini sudah ada di kelas tersebut")
	}

	m := academicsModel.SectionModel{
		SectionClassID: req.ClassID,
		SectionName:    req.Name,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat section")
	}
	return helper.JsonCreated(c, "Section berhasil dibuat", m)
}

// DELETE /api/a/sections/:id
func (h *ClassController) DeleteSection(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("section_id = ?", id).
		Delete(&academicsModel.SectionModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus section")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Section tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Section dihapus", fiber.Map{"section_id": id})
}
