package aqi

// Breakpoint maps one concentration range onto one index range.
type Breakpoint struct {
	ConcLow   float64
	ConcHigh  float64
	IndexLow  int
	IndexHigh int
	Label     string
	Class     string
}

// Table is an ordered, non-overlapping set of breakpoints for one pollutant.
type Table []Breakpoint

// US EPA PM breakpoints (μg/m³). Gas pollutants are not scored under the
// US tables in this design.
var usPM25 = Table{
	{0.0, 12.0, 0, 50, "Good", "good"},
	{12.1, 35.4, 51, 100, "Moderate", "moderate"},
	{35.5, 55.4, 101, 150, "Unhealthy (SG)", "unhealthy"},
	{55.5, 150.4, 151, 200, "Unhealthy", "unhealthy"},
	{150.5, 250.4, 201, 300, "Very Unhealthy", "vunhealthy"},
	{250.5, 500.4, 301, 500, "Hazardous", "hazard"},
}

var usPM10 = Table{
	{0, 54, 0, 50, "Good", "good"},
	{55, 154, 51, 100, "Moderate", "moderate"},
	{155, 254, 101, 150, "Unhealthy (SG)", "unhealthy"},
	{255, 354, 151, 200, "Unhealthy", "unhealthy"},
	{355, 424, 201, 300, "Very Unhealthy", "vunhealthy"},
	{425, 604, 301, 500, "Hazardous", "hazard"},
}

// India CPCB/NAQI breakpoints (μg/m³ except CO, which is mg/m³).
var inPM25 = Table{
	{0, 30, 0, 50, "Good", "good"},
	{31, 60, 51, 100, "Satisfactory", "moderate"},
	{61, 90, 101, 200, "Moderately Polluted", "unhealthy"},
	{91, 120, 201, 300, "Poor", "unhealthy"},
	{121, 250, 301, 400, "Very Poor", "vunhealthy"},
	{251, 500, 401, 500, "Severe", "hazard"},
}

var inPM10 = Table{
	{0, 50, 0, 50, "Good", "good"},
	{51, 100, 51, 100, "Satisfactory", "moderate"},
	{101, 250, 101, 200, "Moderately Polluted", "unhealthy"},
	{251, 350, 201, 300, "Poor", "unhealthy"},
	{351, 430, 301, 400, "Very Poor", "vunhealthy"},
	{431, 600, 401, 500, "Severe", "hazard"},
}

var inNO2 = Table{
	{0, 40, 0, 50, "Good", "good"},
	{41, 80, 51, 100, "Satisfactory", "moderate"},
	{81, 180, 101, 200, "Moderately Polluted", "unhealthy"},
	{181, 280, 201, 300, "Poor", "unhealthy"},
	{281, 400, 301, 400, "Very Poor", "vunhealthy"},
	{401, 1000, 401, 500, "Severe", "hazard"},
}

var inSO2 = Table{
	{0, 40, 0, 50, "Good", "good"},
	{41, 80, 51, 100, "Satisfactory", "moderate"},
	{81, 380, 101, 200, "Moderately Polluted", "unhealthy"},
	{381, 800, 201, 300, "Poor", "unhealthy"},
	{801, 1600, 301, 400, "Very Poor", "vunhealthy"},
	{1601, 3000, 401, 500, "Severe", "hazard"},
}

var inO3 = Table{
	{0, 50, 0, 50, "Good", "good"},
	{51, 100, 51, 100, "Satisfactory", "moderate"},
	{101, 168, 101, 200, "Moderately Polluted", "unhealthy"},
	{169, 208, 201, 300, "Poor", "unhealthy"},
	{209, 748, 301, 400, "Very Poor", "vunhealthy"},
	{749, 1200, 401, 500, "Severe", "hazard"},
}

var inCOmg = Table{
	{0, 1, 0, 50, "Good", "good"},
	{1.1, 2, 51, 100, "Satisfactory", "moderate"},
	{2.1, 10, 101, 200, "Moderately Polluted", "unhealthy"},
	{10.1, 17, 201, 300, "Poor", "unhealthy"},
	{17.1, 34, 301, 400, "Very Poor", "vunhealthy"},
	{34.1, 60, 401, 500, "Severe", "hazard"},
}

// pollutantTable pairs a pollutant key with its regional table. Evaluation
// order matters: ties in the overall pick resolve to the first entry.
type pollutantTable struct {
	Pollutant string
	Table     Table
}

var usTables = []pollutantTable{
	{"pm25", usPM25},
	{"pm10", usPM10},
}

var inTables = []pollutantTable{
	{"pm25", inPM25},
	{"pm10", inPM10},
	{"no2", inNO2},
	{"so2", inSO2},
	{"o3", inO3},
	{"co", inCOmg},
}
