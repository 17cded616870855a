package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/pkg/errors"
)

// Response is the envelope every report endpoint returns. Data is always
// present on success, even when it is an empty list; the optional side
// channels carry chart timelines and aggregation diagnostics.
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Timeline interface{} `json:"timeline,omitempty"`
	Debug    interface{} `json:"_debug,omitempty"`
}

// ErrorResponse is the envelope for failed reports. Only a message crosses
// the boundary; stack traces stay in the logs.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChartResponse carries multi-series chart data keyed by shared category
// labels (bucket keys), the shape the model-performance trend chart expects.
type ChartResponse struct {
	Success    bool          `json:"success"`
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

// ChartSeries is one named line in a ChartResponse.
type ChartSeries struct {
	Name string     `json:"name"`
	Data []*float64 `json:"data"`
}

// SendSuccess sends a successful response
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SendSuccessWithDebug sends a successful response with the aggregation
// debug side-channel (period, resolved range, fallback marker).
func SendSuccessWithDebug(c *gin.Context, data interface{}, debug interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Debug: debug})
}

// SendSuccessWithTimeline sends a summary plus its bucketed time series.
func SendSuccessWithTimeline(c *gin.Context, data interface{}, timeline interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Timeline: timeline})
}

// SendSuccessWithTimelineDebug sends a summary, its time series and the
// aggregation debug side-channel in one envelope.
func SendSuccessWithTimelineDebug(c *gin.Context, data, timeline, debug interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Timeline: timeline, Debug: debug})
}

// SendChart sends categories/series chart data.
func SendChart(c *gin.Context, categories []string, series []ChartSeries) {
	if categories == nil {
		categories = []string{}
	}
	if series == nil {
		series = []ChartSeries{}
	}
	c.JSON(http.StatusOK, ChartResponse{Success: true, Categories: categories, Series: series})
}

// SendError sends an error response with the given status code.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Success: false, Message: message})
}

// SendReportError maps a report-level error to its response: AppError keeps
// its own status (404 for no-data), anything else is a 500 whose message is
// the error text.
func SendReportError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		SendError(c, appErr.Code, appErr.Message)
		return
	}
	SendError(c, http.StatusInternalServerError, err.Error())
}
