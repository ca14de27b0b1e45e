package model

// LiveWeather is the current observation for an adcode.
type LiveWeather struct {
	Province      string `json:"province"`
	City          string `json:"city"`
	Adcode        string `json:"adcode"`
	Weather       string `json:"weather"`
	Temperature   string `json:"temperature"` // Celsius
	WindDirection string `json:"windDirection"`
	WindPower     string `json:"windPower"`
	Humidity      string `json:"humidity"` // Relative humidity (%)
	ReportTime    string `json:"reportTime"`
}

// DailyForecast is one day of a forecast.
type DailyForecast struct {
	Date         string `json:"date"`
	Week         string `json:"week"`
	DayWeather   string `json:"dayWeather"`
	NightWeather string `json:"nightWeather"`
	DayTemp      string `json:"dayTemp"`
	NightTemp    string `json:"nightTemp"`
	DayWind      string `json:"dayWind"`
	NightWind    string `json:"nightWind"`
	DayPower     string `json:"dayPower"`
	NightPower   string `json:"nightPower"`
}

// Weather combines the live observation with an optional forecast.
type Weather struct {
	Live      *LiveWeather    `json:"live,omitempty"`
	Forecasts []DailyForecast `json:"forecasts,omitempty"`
}

// Geocode is a structured address resolved by the geocoding API.
type Geocode struct {
	FormattedAddress string `json:"formattedAddress"`
	Province         string `json:"province"`
	City             string `json:"city"`
	District         string `json:"district"`
	Adcode           string `json:"adcode"`
	Location         string `json:"location"` // "lng,lat"
	Level            string `json:"level"`
}
