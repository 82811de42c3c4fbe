package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/app/services"
	"github.com/yigit/attendance/internal/middleware"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/helpers"
)

// AttendanceController handles daily attendance operations
type AttendanceController struct {
	attendanceService *services.AttendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// SaveAttendance overwrites a class's marks for one day
// @Summary Save attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body dto.SaveAttendanceRequest true "Marks for the day"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Router /api/attendance [post]
func (c *AttendanceController) SaveAttendance(ctx *gin.Context) {
	var req dto.SaveAttendanceRequest
	if !middleware.BindJSON(ctx, &req, apperrors.ErrMissingFields.Message) {
		return
	}

	message, err := c.attendanceService.SaveAttendance(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message))
}

// GetClassAttendance returns the marks of one class on one day
// @Summary Class attendance
// @Tags attendance
// @Produce json
// @Param date query string true "YYYY-MM-DD"
// @Param course query string true "Course"
// @Param yearLevel query string true "Year level"
// @Success 200 {array} models.Attendance
// @Failure 400 {object} dto.ErrorResponse "Missing required parameters"
// @Router /api/attendance [get]
func (c *AttendanceController) GetClassAttendance(ctx *gin.Context) {
	var q dto.AttendanceQuery
	if !middleware.BindQuery(ctx, &q, apperrors.ErrMissingParameters.Message) {
		return
	}

	records, err := c.attendanceService.ClassAttendance(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetStudentAttendance returns a student's history, newest first
// @Summary Student attendance history
// @Tags attendance
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {array} models.StudentAttendance
// @Router /api/attendance/student/{studentId} [get]
func (c *AttendanceController) GetStudentAttendance(ctx *gin.Context) {
	studentID, err := helpers.ParseIDParam(ctx, "studentId")
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid student ID"})
		return
	}

	records, err := c.attendanceService.StudentAttendance(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetStats returns per-student attendance totals for a class
// @Summary Class attendance statistics
// @Tags attendance
// @Produce json
// @Param course query string true "Course"
// @Param yearLevel query string true "Year level"
// @Success 200 {array} models.AttendanceStats
// @Failure 400 {object} dto.ErrorResponse "Missing required parameters"
// @Router /api/attendance/stats [get]
func (c *AttendanceController) GetStats(ctx *gin.Context) {
	var q dto.ClassQuery
	if !middleware.BindQuery(ctx, &q, apperrors.ErrMissingParameters.Message) {
		return
	}

	stats, err := c.attendanceService.Stats(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
