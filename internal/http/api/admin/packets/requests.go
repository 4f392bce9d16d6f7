package packets

// IqamaahRangeEntry is one submitted validity window.
// Dates accept YYYY-MM-DD or M/D/YYYY; time is HH:mm 24-hour.
type IqamaahRangeEntry struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
	Time      string `json:"time"      binding:"required"`
}

// BulkIqamaahRequest replaces the full window set for every category.
// Legacy spellings are folded onto the canonical keys before validation.
type BulkIqamaahRequest struct {
	Fajr   []IqamaahRangeEntry `json:"fajr"`
	Dhuhr  []IqamaahRangeEntry `json:"dhuhr"`
	Asr    []IqamaahRangeEntry `json:"asr"`
	Isha   []IqamaahRangeEntry `json:"isha"`
	Jumuah []IqamaahRangeEntry `json:"jumuah"`

	// legacy aliases, honored only when the canonical key is absent
	Fajar     []IqamaahRangeEntry `json:"fajar"`
	Zuhr      []IqamaahRangeEntry `json:"zuhr"`
	Jummah    []IqamaahRangeEntry `json:"jummah"`
	JumuahAlt []IqamaahRangeEntry `json:"jumu'ah"`
}

type InsertIqamaahRangeRequest struct {
	Prayer    string `json:"prayer"    binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
	Time      string `json:"time"      binding:"required"`
}

type UpdateIqamaahRangeRequest struct {
	Prayer    string `json:"prayer"    binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
	Time      string `json:"time"      binding:"required"`
	// optional: pin the exact previously-returned window to replace
	OldTime      string `json:"oldTime"`
	OldStartDate string `json:"oldStartDate"`
	OldEndDate   string `json:"oldEndDate"`
}

type DeleteIqamaahRangeRequest struct {
	Prayer    string `json:"prayer"    binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
	// optional: only carve windows carrying this exact time
	Time string `json:"time"`
}

type MonthQuery struct {
	Year  int `form:"year"  binding:"required"`
	Month int `form:"month" binding:"required"`
}

type UpsertMasjidConfigRequest struct {
	Address                  string  `json:"address"  binding:"required"`
	TimeZone                 string  `json:"timeZone" binding:"required"`
	QRLink                   string  `json:"qrLink"`
	TickerText               *string `json:"tickerText"`
	MaghribSunsetAddition    *int    `json:"maghribSunsetAdditionMinutes"`
	Method                   *int    `json:"method"`
	Shafaq                   *string `json:"shafaq"`
	School                   *int    `json:"school"`
	MidnightMode             *int    `json:"midnightMode"`
	CalendarMethod           *string `json:"calendarMethod"`
	LatitudeAdjustmentMethod *int    `json:"latitudeAdjustmentMethod"`
	Tune                     *string `json:"tune"`
	Adjustment               *string `json:"adjustment"`
	AlwaysDisplayIqamaah     *bool   `json:"alwaysDisplayIqamaahTime"`
	DisplayTimerDuration     *int    `json:"displayTimerDuration"`
	UseMobileTTS             *bool   `json:"useMobileTTS"`
	MonthAdjustment          *int    `json:"monthAdjustment"`
	CustomAngles             *string `json:"customAngles"`
}

type CreateAnnouncementRequest struct {
	Text         string  `json:"text" binding:"required"`
	AudioURL     *string `json:"audio_url"`
	UseMobileTTS bool    `json:"use_mobile_tts"`
}

type UpdateAnnouncementRequest struct {
	Text         *string `json:"text"`
	AudioURL     *string `json:"audio_url"`
	UseMobileTTS *bool   `json:"use_mobile_tts"`
}

type PageScheduleEntry struct {
	Type      string  `json:"type" binding:"required,oneof=recurring daterange"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type SlideEntry struct {
	Image    string `json:"image" binding:"required"`
	Duration int    `json:"duration"`
	IsActive *bool  `json:"is_active"`
}

type CreatePageRequest struct {
	Title        string              `json:"title"     binding:"required"`
	PageType     string              `json:"page_type" binding:"required,oneof=text image slider text-slider image-text"`
	Content      string              `json:"content"`
	Image        *string             `json:"image"`
	Slides       []SlideEntry        `json:"slides"`
	PageDuration *int                `json:"page_duration"`
	Position     int                 `json:"position"`
	Schedules    []PageScheduleEntry `json:"schedules"`
	IsActive     *bool               `json:"is_active"`
}

type UpdatePageRequest struct {
	Title        *string             `json:"title"`
	PageType     *string             `json:"page_type"`
	Content      *string             `json:"content"`
	Image        *string             `json:"image"`
	Slides       []SlideEntry        `json:"slides"`
	PageDuration *int                `json:"page_duration"`
	Position     *int                `json:"position"`
	Schedules    []PageScheduleEntry `json:"schedules"`
	IsActive     *bool               `json:"is_active"`
}

type RefreshTimingsRequest struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
}

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateCurrentProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}
