package handlers

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/errors"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetModelPerformance serves the model accuracy chart, or the
// accuracy/satisfaction/conversion ring when mode=ring is requested.
func (h *Handlers) GetModelPerformance(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("model_performance", time.Now())

	if c.Query("mode") == "ring" {
		ring, err := h.repos.AI.GetRingMetrics(c.Request.Context(), rng)
		if err != nil {
			h.log.WithError(err).Error("Failed to aggregate AI ring metrics")
			utils.SendReportError(c, err)
			return
		}
		// The ring widget consumes data[0], so the single aggregate rides
		// in a one-element list.
		utils.SendSuccess(c, []*models.AIRingMetrics{ring})
		return
	}

	points, fb, err := h.repos.AI.GetModelTrend(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to load model performance trend")
		utils.SendReportError(c, err)
		return
	}
	if fb.Used {
		h.markFallback("model_performance", rng.Period)
	}

	categories, series := buildModelChart(points)
	utils.SendChart(c, categories, series)
}

// buildModelChart pivots (date, model, accuracy) samples into a chart with
// one shared date axis and one series per model. Dates a model has no sample
// for stay null so the chart renders a gap instead of a fabricated zero.
func buildModelChart(points []models.ModelAccuracyPoint) ([]string, []utils.ChartSeries) {
	dateSet := make(map[string]struct{})
	modelSet := make(map[string]struct{})
	samples := make(map[string]map[string]float64)

	for _, p := range points {
		dateSet[p.RecordDate] = struct{}{}
		modelSet[p.ModelName] = struct{}{}
		if samples[p.ModelName] == nil {
			samples[p.ModelName] = make(map[string]float64)
		}
		samples[p.ModelName][p.RecordDate] = p.Accuracy
	}

	categories := make([]string, 0, len(dateSet))
	for d := range dateSet {
		categories = append(categories, d)
	}
	sort.Strings(categories)

	modelNames := make([]string, 0, len(modelSet))
	for m := range modelSet {
		modelNames = append(modelNames, m)
	}
	sort.Strings(modelNames)

	series := make([]utils.ChartSeries, 0, len(modelNames))
	for _, name := range modelNames {
		data := make([]*float64, len(categories))
		for i, d := range categories {
			if v, ok := samples[name][d]; ok {
				value := v
				data[i] = &value
			}
		}
		series = append(series, utils.ChartSeries{Name: name, Data: data})
	}
	return categories, series
}

// GetAISummary serves the AI KPI block: fleet-average accuracy and latency
// plus the winning model's lift over the baseline model.
func (h *Handlers) GetAISummary(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("ai_summary", time.Now())

	aggregates, fb, err := h.repos.AI.GetModelAggregates(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate model metrics")
		utils.SendReportError(c, err)
		return
	}
	if len(aggregates) == 0 {
		h.markNoData("ai_summary")
		utils.SendReportError(c, errors.NoData("No model performance data found for period %s (%s)", rng.Period, rng))
		return
	}
	if fb.Used {
		h.markFallback("ai_summary", rng.Period)
	}

	utils.SendSuccess(c, summarizeModels(aggregates))
}

// summarizeModels builds the KPI block. Accuracy, response time and
// confidence are fleet-wide means over every model; only the A/B fields
// single out the winner. The baseline is the model whose name starts with
// "baseline"; when none is named that, the runner-up serves as the
// comparison point, and a lone model improves over itself by zero.
func summarizeModels(aggregates []models.ModelAggregate) *models.AISummary {
	var accSum, respSum float64
	for _, a := range aggregates {
		accSum += a.AvgAccuracy
		respSum += a.AvgResponseTime
	}
	avgAccuracy := accSum / float64(len(aggregates))
	avgResponse := respSum / float64(len(aggregates))

	sorted := make([]models.ModelAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AvgAccuracy > sorted[j].AvgAccuracy })

	winner := sorted[0]
	baselineAcc := winner.AvgAccuracy
	found := false
	for _, a := range sorted {
		if strings.HasPrefix(strings.ToLower(a.ModelName), "baseline") {
			baselineAcc = a.AvgAccuracy
			found = true
			break
		}
	}
	if !found && len(sorted) > 1 {
		baselineAcc = sorted[1].AvgAccuracy
	}

	improvement := 0.0
	if baselineAcc != 0 {
		improvement = (winner.AvgAccuracy - baselineAcc) / baselineAcc * 100
	}

	return &models.AISummary{
		Accuracy:         math.Round(avgAccuracy*100) / 100,
		ResponseTimeMs:   int(avgResponse),
		Confidence:       math.Round(avgAccuracy/100*100) / 100,
		ABWinner:         winner.ModelName,
		ABImprovementPct: math.Round(improvement*100) / 100,
	}
}

// GetFeaturePerformance serves the per-feature adoption rows.
func (h *Handlers) GetFeaturePerformance(c *gin.Context) {
	defer h.observeQuery("feature_performance", time.Now())

	features, err := h.repos.AI.GetFeaturePerformance(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load feature performance")
		utils.SendReportError(c, err)
		return
	}
	if features == nil {
		features = []models.FeaturePerformance{}
	}
	utils.SendSuccess(c, features)
}
