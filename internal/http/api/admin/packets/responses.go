package packets

import (
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/model"
)

// IqamaahRangeResponse mirrors model.Window but flattens dates to YYYY-MM-DD.
type IqamaahRangeResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Time      string `json:"time"`
}

type IqamaahTimesResponse struct {
	Fajr   []IqamaahRangeResponse `json:"fajr"`
	Dhuhr  []IqamaahRangeResponse `json:"dhuhr"`
	Asr    []IqamaahRangeResponse `json:"asr"`
	Isha   []IqamaahRangeResponse `json:"isha"`
	Jumuah []IqamaahRangeResponse `json:"jumuah"`
}

func toRangeResponses(ws []model.Window) []IqamaahRangeResponse {
	out := make([]IqamaahRangeResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, IqamaahRangeResponse{
			StartDate: iqamaah.FormatDay(w.StartDate),
			EndDate:   iqamaah.FormatDay(w.EndDate),
			Time:      w.Time,
		})
	}
	return out
}

// NewIqamaahTimesResponse renders an aggregate with wire-form dates.
func NewIqamaahTimesResponse(doc *model.IqamaahTimes) IqamaahTimesResponse {
	return IqamaahTimesResponse{
		Fajr:   toRangeResponses(doc.Fajr),
		Dhuhr:  toRangeResponses(doc.Dhuhr),
		Asr:    toRangeResponses(doc.Asr),
		Isha:   toRangeResponses(doc.Isha),
		Jumuah: toRangeResponses(doc.Jumuah),
	}
}

type MonthScheduleResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Data  []model.IqamaahDayRow `json:"data"`
}

type MonthRangesResponse struct {
	Year  int                  `json:"year"`
	Month int                  `json:"month"`
	Data  IqamaahTimesResponse `json:"data"`
}

type ProfileResponse struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type BannerResponse struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}
