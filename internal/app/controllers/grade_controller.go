package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/app/services"
	"github.com/yigit/attendance/internal/middleware"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/helpers"
)

// GradeController handles term grade operations
type GradeController struct {
	gradeService *services.GradeService
	logger       zerolog.Logger
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService, logger zerolog.Logger) *GradeController {
	return &GradeController{
		gradeService: gradeService,
		logger:       logger,
	}
}

// SaveGrade writes one term grade
// @Summary Save grade
// @Tags grades
// @Accept json
// @Produce json
// @Param request body dto.SaveGradeRequest true "Term grade"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or invalid term"
// @Router /api/grades [post]
func (c *GradeController) SaveGrade(ctx *gin.Context) {
	var req dto.SaveGradeRequest
	if !middleware.BindJSON(ctx, &req, apperrors.ErrMissingFields.Message) {
		return
	}

	if err := c.gradeService.SaveGrade(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Grade saved successfully"))
}

// ListGrades lists all students' grades, or one class's
// @Summary List grades
// @Tags grades
// @Produce json
// @Param course query string false "Course"
// @Param yearLevel query string false "Year level"
// @Success 200 {array} models.Grade
// @Failure 400 {object} dto.ErrorResponse "Missing required parameters"
// @Router /api/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	var q dto.ClassQuery
	if !middleware.BindQuery(ctx, &q, apperrors.ErrMissingParameters.Message) {
		return
	}

	grades, err := c.gradeService.ListGrades(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, grades)
}

// GetStudentGrades returns a student's grades
// @Summary Student grades
// @Tags grades
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {array} models.Grade
// @Router /api/grades/student/{studentId} [get]
func (c *GradeController) GetStudentGrades(ctx *gin.Context) {
	studentID, err := helpers.ParseIDParam(ctx, "studentId")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid student ID"})
		return
	}

	grades, err := c.gradeService.StudentGrades(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, grades)
}

// DeleteGrade removes one grade row
// @Summary Delete grade
// @Tags grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /api/grades/{id} [delete]
func (c *GradeController) DeleteGrade(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid grade ID"})
		return
	}

	if err := c.gradeService.DeleteGrade(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Grade deleted successfully"))
}

// DeleteSubjectGrades removes every term of a student's subject in a semester
// @Summary Delete subject grades
// @Tags grades
// @Produce json
// @Param studentId path int true "Student ID"
// @Param subject path string true "Subject"
// @Param semester path string true "Semester"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /api/grades/student/{studentId}/subject/{subject}/semester/{semester} [delete]
func (c *GradeController) DeleteSubjectGrades(ctx *gin.Context) {
	studentID, err := helpers.ParseIDParam(ctx, "studentId")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid student ID"})
		return
	}

	err = c.gradeService.DeleteSubjectGrades(ctx.Request.Context(), studentID, ctx.Param("subject"), models.Semester(ctx.Param("semester")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Grade deleted successfully"))
}
