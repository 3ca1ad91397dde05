package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "schoolku_backend/internals/databases"
	resultDTO "schoolku_backend/internals/features/school/results/dto"
	resultService "schoolku_backend/internals/features/school/results/service"
	helper "schoolku_backend/internals/helpers"
)

type ResultsController struct {
	DB      *gorm.DB
	Locks   *resultService.LockService
	Marks   *resultService.MarkService
	Results *resultService.ResultService
}

func NewResultsController(db *gorm.DB) *ResultsController {
	return &ResultsController{
		DB:      db,
		Locks:   resultService.NewLockService(db),
		Marks:   resultService.NewMarkService(db),
		Results: resultService.NewResultService(db),
	}
}

func parseSitting(req resultDTO.SittingRequest) (resultService.Sitting, error) {
	examID, err := uuid.Parse(req.ExamID)
	if err != nil {
		return resultService.Sitting{}, err
	}
	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return resultService.Sitting{}, err
	}
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		return resultService.Sitting{}, err
	}
	return resultService.Sitting{
		ExamID:       examID,
		ClassID:      classID,
		SectionID:    sectionID,
		AcademicYear: req.AcademicYear,
	}, nil
}

// sittingFromQuery membaca sitting dari query string untuk endpoint GET.
func sittingFromQuery(c *fiber.Ctx) (resultService.Sitting, error) {
	req := resultDTO.SittingRequest{
		ExamID:       c.Query("exam_id"),
		ClassID:      c.Query("class_id"),
		SectionID:    c.Query("section_id"),
		AcademicYear: c.Query("year"),
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return resultService.Sitting{}, err
	}
	return parseSitting(req)
}

func mapResultError(err error, fallback string) error {
	switch {
	case errors.Is(err, resultService.ErrResultsLocked):
		return fiber.NewError(fiber.StatusLocked, "Nilai sudah dipublikasikan dan terkunci")
	case errors.Is(err, resultService.ErrMarkExceedsFull):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Nilai perolehan melebihi nilai maksimal")
	case errors.Is(err, resultService.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

/* =========================================================
   UPLOAD / UPSERT NILAI
   POST /api/t/marks
   ========================================================= */
func (h *ResultsController) UpsertMarks(c *fiber.Ctx) error {
	var req resultDTO.UpsertMarksRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	sitting, err := parseSitting(req.Sitting)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Sitting tidak valid")
	}

	enteredBy, _ := helper.GetUserIDFromToken(c)
	saved, err := h.Marks.UpsertMarks(sitting, req.Marks, enteredBy)
	if err != nil {
		return mapResultError(err, "Gagal menyimpan nilai")
	}
	return helper.JsonOK(c, "Nilai tersimpan", fiber.Map{"saved_count": saved})
}

/* =========================================================
   NILAI MENTAH SATU SITTING
   GET /api/t/marks?exam_id=&class_id=&section_id=&year=
   ========================================================= */
func (h *ResultsController) ListMarks(c *fiber.Ctx) error {
	sitting, err := sittingFromQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Parameter sitting tidak lengkap")
	}
	rows, err := h.Marks.MarksForSitting(sitting)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil nilai")
	}
	locked, err := h.Locks.IsLocked(sitting)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek status lock")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"marks":  rows,
		"locked": locked,
	})
}

/* =========================================================
   PUBLISH / UNPUBLISH (idempoten)
   PUT /api/a/result-locks
   ========================================================= */
func (h *ResultsController) SetLock(c *fiber.Ctx) error {
	var req resultDTO.SetLockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	sitting, err := parseSitting(req.Sitting)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Sitting tidak valid")
	}

	lockedBy, _ := helper.GetUserIDFromToken(c)
	if err := h.Locks.SetLock(sitting, req.Locked, lockedBy); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengubah status publikasi")
	}
	msg := "Nilai dibuka kembali"
	if req.Locked {
		msg = "Nilai dipublikasikan"
	}
	return helper.JsonUpdated(c, msg, fiber.Map{"locked": req.Locked})
}

/* =========================================================
   STATUS LOCK
   GET /api/t/result-locks?exam_id=&class_id=&section_id=&year=
   ========================================================= */
func (h *ResultsController) GetLockStatus(c *fiber.Ctx) error {
	sitting, err := sittingFromQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Parameter sitting tidak lengkap")
	}
	locked, err := h.Locks.IsLocked(sitting)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek status lock")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"locked": locked})
}

/* =========================================================
   MARKSHEET SATU SECTION
   GET /api/t/results?exam_id=&class_id=&section_id=&year=
   ========================================================= */
func (h *ResultsController) ListSectionResults(c *fiber.Ctx) error {
	sitting, err := sittingFromQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Parameter sitting tidak lengkap")
	}
	var results []resultDTO.StudentResult
	err = database.WithRetry(func() error {
		var e error
		results, e = h.Results.ListSectionResults(sitting)
		return e
	})
	if err != nil {
		if database.IsTransient(err) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Database sedang tidak bisa diakses")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung hasil")
	}
	return helper.JsonList(c, "ok", results, nil)
}

/* =========================================================
   MARKSHEET SATU SISWA
   GET /api/t/results/:student_id?exam_id=&class_id=&section_id=&year=
   ========================================================= */
func (h *ResultsController) GetStudentResult(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID siswa tidak valid")
	}
	sitting, err := sittingFromQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Parameter sitting tidak lengkap")
	}
	result, err := h.Results.ComputeStudentResult(studentID, sitting)
	if err != nil {
		return mapResultError(err, "Gagal menghitung hasil")
	}
	return helper.JsonOK(c, "ok", result)
}
