package weather

import (
	"sort"
	"time"

	"weather-api/internal/domain/model"
	"weather-api/internal/domain/model/external"
)

// MaxForecastDays is the number of daily summaries kept, earliest first
const MaxForecastDays = 5

// DateZone selects the calendar used to split forecast samples into days
type DateZone string

const (
	// ZoneServer uses the process local time zone
	ZoneServer DateZone = "server"
	// ZoneCity uses the UTC offset reported for the forecast city
	ZoneCity DateZone = "city"
	ZoneUTC  DateZone = "utc"
)

// location resolves the zone for a forecast whose city is offsetSeconds east of UTC
func (z DateZone) location(offsetSeconds int) *time.Location {
	switch z {
	case ZoneUTC:
		return time.UTC
	case ZoneCity:
		return time.FixedZone("city", offsetSeconds)
	default:
		return time.Local
	}
}

type dayBucket struct {
	date         string
	weekday      string
	tempMin      float64
	tempMax      float64
	humiditySum  int
	windSum      float64
	count        int
	descriptions *counter
	icons        *counter
}

// AggregateDays buckets samples by calendar date in loc and summarizes each date.
func AggregateDays(samples []external.ForecastSampleDTO, loc *time.Location) []model.ForecastItem {
	buckets := make(map[string]*dayBucket)

	for _, sample := range samples {
		at := time.Unix(sample.Dt, 0).In(loc)
		date := at.Format(time.DateOnly)

		readings, wind := deref(sample.Main), deref(sample.Wind)

		bucket, ok := buckets[date]
		if !ok {
			bucket = &dayBucket{
				date:         date,
				weekday:      at.Weekday().String(),
				tempMin:      readings.Temp,
				tempMax:      readings.Temp,
				descriptions: newCounter(),
				icons:        newCounter(),
			}
			buckets[date] = bucket
		}

		bucket.tempMin = min(bucket.tempMin, readings.Temp)
		bucket.tempMax = max(bucket.tempMax, readings.Temp)
		bucket.humiditySum += readings.Humidity
		bucket.windSum += wind.Speed
		bucket.count++
		condition := primaryCondition(sample.Weather)
		bucket.descriptions.add(condition.Description)
		bucket.icons.add(condition.Icon)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > MaxForecastDays {
		dates = dates[:MaxForecastDays]
	}

	days := make([]model.ForecastItem, 0, len(dates))
	for _, date := range dates {
		bucket := buckets[date]
		days = append(days, model.ForecastItem{
			Date:        bucket.date,
			DayOfWeek:   bucket.weekday,
			TempMin:     bucket.tempMin,
			TempMax:     bucket.tempMax,
			Description: bucket.descriptions.mostFrequent(),
			Icon:        bucket.icons.mostFrequent(),
			Humidity:    bucket.humiditySum / bucket.count,
			WindSpeed:   bucket.windSum / float64(bucket.count),
		})
	}
	return days
}

// counter tallies values and remembers first-seen order for tie breaks
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(value string) {
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// mostFrequent returns the highest count, the earliest seen value on ties
func (c *counter) mostFrequent() string {
	best, bestCount := "", 0
	for _, value := range c.order {
		if c.counts[value] > bestCount {
			best, bestCount = value, c.counts[value]
		}
	}
	return best
}

// primaryCondition returns the first weather condition, the gateway rejects payloads without one
func primaryCondition(conditions []external.WeatherConditionDTO) external.WeatherConditionDTO {
	if len(conditions) == 0 {
		return external.WeatherConditionDTO{}
	}
	return conditions[0]
}
