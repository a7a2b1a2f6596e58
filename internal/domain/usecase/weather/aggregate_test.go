package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/internal/domain/model/external"
)

func sampleAt(at time.Time, temp float64, humidity int, wind float64, description, icon string) external.ForecastSampleDTO {
	return external.ForecastSampleDTO{
		Dt:      at.Unix(),
		Main:    &external.MainDTO{Temp: temp, Humidity: humidity},
		Wind:    &external.WindDTO{Speed: wind},
		Weather: []external.WeatherConditionDTO{{Description: description, Icon: icon}},
	}
}

// 2024-01-15 is a Monday
var monday = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestAggregateDays_GroupsByDateWithMinMax(t *testing.T) {
	samples := []external.ForecastSampleDTO{
		sampleAt(monday.Add(3*time.Hour), 10, 80, 2, "light rain", "10d"),
		sampleAt(monday.Add(6*time.Hour), 14.5, 70, 4, "light rain", "10d"),
		sampleAt(monday.Add(9*time.Hour), 8.2, 60, 3, "clear sky", "01d"),
		sampleAt(monday.Add(27*time.Hour), 5, 50, 1, "snow", "13d"),
		sampleAt(monday.Add(51*time.Hour), -2, 40, 6, "mist", "50d"),
	}

	days := AggregateDays(samples, time.UTC)

	require.Len(t, days, 3)
	assert.Equal(t, "2024-01-15", days[0].Date)
	assert.Equal(t, "Monday", days[0].DayOfWeek)
	assert.Equal(t, 8.2, days[0].TempMin)
	assert.Equal(t, 14.5, days[0].TempMax)
	assert.Equal(t, "light rain", days[0].Description)
	assert.Equal(t, "10d", days[0].Icon)
	assert.Equal(t, 70, days[0].Humidity)
	assert.InDelta(t, 3.0, days[0].WindSpeed, 1e-9)

	assert.Equal(t, "2024-01-16", days[1].Date)
	assert.Equal(t, "Tuesday", days[1].DayOfWeek)
	assert.Equal(t, "2024-01-17", days[2].Date)
	assert.Equal(t, -2.0, days[2].TempMin)
	assert.Equal(t, -2.0, days[2].TempMax)
}

func TestAggregateDays_HumidityTruncates(t *testing.T) {
	samples := []external.ForecastSampleDTO{
		sampleAt(monday.Add(1*time.Hour), 1, 70, 0, "a", "01d"),
		sampleAt(monday.Add(2*time.Hour), 1, 71, 0, "a", "01d"),
	}

	days := AggregateDays(samples, time.UTC)

	require.Len(t, days, 1)
	assert.Equal(t, 70, days[0].Humidity)
}

func TestAggregateDays_TieBreakKeepsFirstSeen(t *testing.T) {
	icons := []string{"01d", "02d", "02d", "01d"}
	descriptions := []string{"few clouds", "clear sky", "clear sky", "few clouds"}
	var samples []external.ForecastSampleDTO
	for i := range icons {
		samples = append(samples, sampleAt(monday.Add(time.Duration(i*3)*time.Hour), 1, 50, 1, descriptions[i], icons[i]))
	}

	for run := 0; run < 20; run++ {
		days := AggregateDays(samples, time.UTC)
		require.Len(t, days, 1)
		assert.Equal(t, "01d", days[0].Icon)
		assert.Equal(t, "few clouds", days[0].Description)
	}
}

func TestAggregateDays_KeepsFirstFiveDates(t *testing.T) {
	var samples []external.ForecastSampleDTO
	// provider order reversed to check the sort
	for day := 6; day >= 0; day-- {
		samples = append(samples, sampleAt(monday.AddDate(0, 0, day).Add(12*time.Hour), float64(day), 50, 1, "x", "01d"))
	}

	days := AggregateDays(samples, time.UTC)

	require.Len(t, days, MaxForecastDays)
	assert.Equal(t, "2024-01-15", days[0].Date)
	assert.Equal(t, "2024-01-19", days[4].Date)
	for i := 1; i < len(days); i++ {
		assert.Less(t, days[i-1].Date, days[i].Date)
	}
}

func TestAggregateDays_Empty(t *testing.T) {
	days := AggregateDays(nil, time.UTC)

	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestAggregateDays_CityZoneShiftsDate(t *testing.T) {
	late := monday.Add(23 * time.Hour)
	samples := []external.ForecastSampleDTO{sampleAt(late, 1, 50, 1, "x", "01d")}

	utcDays := AggregateDays(samples, ZoneUTC.location(0))
	cityDays := AggregateDays(samples, ZoneCity.location(2*3600))

	assert.Equal(t, "2024-01-15", utcDays[0].Date)
	assert.Equal(t, "2024-01-16", cityDays[0].Date)
	assert.Equal(t, "Tuesday", cityDays[0].DayOfWeek)
}

func TestDateZone_ServerIsLocal(t *testing.T) {
	assert.Equal(t, time.Local, ZoneServer.location(3600))
	assert.Equal(t, time.Local, DateZone("").location(0))
}
