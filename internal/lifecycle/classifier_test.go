package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/investorcenter/score-engine/internal/contracts"
	"github.com/investorcenter/score-engine/pkg/logger"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(logger.NewNop())

	tests := []struct {
		name    string
		metrics contracts.MetricSet
		want    contracts.LifecycleStage
	}{
		{
			name: "hypergrowth above 50",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 72.4,
				contracts.MetricNetMargin:        -12.0,
			},
			want: contracts.StageHypergrowth,
		},
		{
			name: "growth above 15",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 23.0,
				contracts.MetricNetMargin:        4.5,
			},
			want: contracts.StageGrowth,
		},
		{
			name: "boundary 50 is growth not hypergrowth",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 50.0,
				contracts.MetricNetMargin:        2.0,
			},
			want: contracts.StageGrowth,
		},
		{
			name: "boundary 15 is mature not growth",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 15.0,
				contracts.MetricNetMargin:        8.0,
			},
			want: contracts.StageMature,
		},
		{
			name: "flat revenue positive margin is mature",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 0.0,
				contracts.MetricNetMargin:        11.2,
			},
			want: contracts.StageMature,
		},
		{
			name: "contracting with improving trend is turnaround",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY:   -8.3,
				contracts.MetricNetMargin:          -2.0,
				contracts.MetricRevenueGrowthTrend: 4.1,
			},
			want: contracts.StageTurnaround,
		},
		{
			name: "contracting with worsening trend is declining",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY:   -8.3,
				contracts.MetricNetMargin:          -2.0,
				contracts.MetricRevenueGrowthTrend: -1.5,
			},
			want: contracts.StageDeclining,
		},
		{
			name: "contracting without trend metric is declining",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: -3.0,
				contracts.MetricNetMargin:        1.0,
			},
			want: contracts.StageDeclining,
		},
		{
			name: "modest growth with negative margin is declining",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 6.0,
				contracts.MetricNetMargin:        -4.0,
			},
			want: contracts.StageDeclining,
		},
		{
			name: "missing growth defaults to mature",
			metrics: contracts.MetricSet{
				contracts.MetricNetMargin: 9.0,
			},
			want: contracts.StageMature,
		},
		{
			name: "missing margin defaults to mature",
			metrics: contracts.MetricSet{
				contracts.MetricRevenueGrowthYoY: 28.0,
			},
			want: contracts.StageMature,
		},
		{
			name:    "empty metric set defaults to mature",
			metrics: contracts.MetricSet{},
			want:    contracts.StageMature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.metrics)
			assert.Equal(t, tt.want, got.Stage)
			assert.NotEmpty(t, got.Reason)
			assert.True(t, got.Stage.IsValid())
		})
	}
}
