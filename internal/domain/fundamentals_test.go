package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFact_Before(t *testing.T) {
	q1 := Fact{Metric: MetricSales, Period: Quarterly, Year: 2019, Quarter: 1}
	q2 := Fact{Metric: MetricSales, Period: Quarterly, Year: 2019, Quarter: 2}
	q4prev := Fact{Metric: MetricSales, Period: Quarterly, Year: 2018, Quarter: 4}

	assert.True(t, q1.Before(q2))
	assert.False(t, q2.Before(q1))
	assert.True(t, q4prev.Before(q1))
	assert.False(t, q1.Before(q1))
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "A", Annual.String())
	assert.Equal(t, "Q", Quarterly.String())
}

func TestFact_String(t *testing.T) {
	assert.Equal(t, "EPS 2018 = 1.5", Fact{Metric: MetricEPS, Year: 2018, Value: 1.5}.String())
	assert.Equal(t, "sales 2019 Q3 = -2",
		Fact{Metric: MetricSales, Period: Quarterly, Year: 2019, Quarter: 3, Value: -2}.String())
}
