// Package view turns the backend's loose entity records into the flat,
// display-ready rows the dashboard serves. Every normalizer applies the same
// fallback rules: records without any ID are dropped, missing person names
// become "Unknown", missing text becomes a dash, missing counts become zero.
package view

import (
	"math"
	"time"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
)

const (
	dashText    = "—"
	unknownName = "Unknown"
)

type Educator struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Specialization string  `json:"specialization"`
	Rating         float64 `json:"rating"`
	TotalCourses   int     `json:"totalCourses"`
	TotalStudents  int     `json:"totalStudents"`
	Status         string  `json:"status"`
	JoinedAt       string  `json:"joinedAt"`
}

type Student struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Class           string `json:"class"`
	EnrolledCourses int    `json:"enrolledCourses"`
	Status          string `json:"status"`
	JoinedAt        string `json:"joinedAt"`
}

type Course struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	EducatorName string  `json:"educatorName"`
	Subject      string  `json:"subject"`
	Enrolled     int     `json:"enrolled"`
	Fees         float64 `json:"fees"`
	Status       string  `json:"status"`
}

type Test struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Subject    string `json:"subject"`
	Duration   int    `json:"duration"`
	TotalMarks int    `json:"totalMarks"`
	Questions  int    `json:"questions"`
	Enrolled   int    `json:"enrolled"`
	Status     string `json:"status"`
}

type TestSeries struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	EducatorName string  `json:"educatorName"`
	Tests        int     `json:"tests"`
	Enrolled     int     `json:"enrolled"`
	Price        float64 `json:"price"`
	Validity     string  `json:"validity"`
	Status       string  `json:"status"`
}

type Webinar struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	EducatorName string  `json:"educatorName"`
	Subject      string  `json:"subject"`
	Date         string  `json:"date"`
	Capacity     int     `json:"capacity"`
	Enrolled     int     `json:"enrolled"`
	Fees         float64 `json:"fees"`
	Status       string  `json:"status"`
}

type LiveClass struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	EducatorName string `json:"educatorName"`
	Subject      string `json:"subject"`
	Timing       string `json:"timing"`
	Duration     int    `json:"duration"`
	MaxStudents  int    `json:"maxStudents"`
	Enrolled     int    `json:"enrolled"`
	Status       string `json:"status"`
}

type Payout struct {
	ID           string  `json:"id"`
	EducatorName string  `json:"educatorName"`
	Amount       float64 `json:"amount"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	PaidAt       string  `json:"paidAt,omitempty"`
}

type Payment struct {
	ID          string  `json:"id"`
	Product     string  `json:"product"`
	ProductType string  `json:"productType"`
	Buyer       string  `json:"buyer"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// NormalizeEducator flattens a raw educator record. ok is false when the
// record carries no usable ID.
func NormalizeEducator(raw facultypedia.RawEducator) (Educator, bool) {
	id := raw.Key()
	if id == "" {
		return Educator{}, false
	}
	name := firstNonEmpty(raw.FullName, raw.Name, raw.Username, unknownName)
	totalCourses := countOr(raw.TotalCourses, raw.Courses)
	totalStudents := int(raw.FollowersCount)
	if raw.TotalStudents != nil {
		totalStudents = int(*raw.TotalStudents)
	} else if raw.Followers != nil {
		totalStudents = int(*raw.Followers)
	}
	return Educator{
		ID:             id,
		Name:           name,
		Email:          textOr(raw.Email),
		Specialization: textOr(raw.Specialization.Join()),
		Rating:         round2(float64(raw.Rating)),
		TotalCourses:   totalCourses,
		TotalStudents:  totalStudents,
		Status:         statusOf(raw.Status, raw.IsActive),
		JoinedAt:       firstNonEmpty(raw.JoinedAt, raw.CreatedAt),
	}, true
}

func NormalizeStudent(raw facultypedia.RawStudent) (Student, bool) {
	id := raw.Key()
	if id == "" {
		return Student{}, false
	}
	return Student{
		ID:              id,
		Name:            firstNonEmpty(raw.FullName, raw.Name, unknownName),
		Email:           textOr(raw.Email),
		Class:           textOr(firstNonEmpty(string(raw.Class), string(raw.Grade))),
		EnrolledCourses: countOr(raw.EnrolledCourses, raw.Courses),
		Status:          statusOf(raw.Status, raw.IsActive),
		JoinedAt:        firstNonEmpty(raw.JoinedAt, raw.CreatedAt),
	}, true
}

func NormalizeCourse(raw facultypedia.RawCourse) (Course, bool) {
	id := raw.Key()
	if id == "" {
		return Course{}, false
	}
	return Course{
		ID:           id,
		Title:        textOr(raw.Title),
		EducatorName: firstNonEmpty(raw.EducatorName, string(raw.Educator), string(raw.EducatorID), unknownName),
		Subject:      textOr(raw.Subject.Join()),
		Enrolled:     countOr(raw.Enrolled, raw.EnrolledStudents),
		Fees:         float64(raw.Fees),
		Status:       statusOf(raw.Status, raw.IsActive),
	}, true
}

func NormalizeTest(raw facultypedia.RawTest) (Test, bool) {
	id := raw.Key()
	if id == "" {
		return Test{}, false
	}
	return Test{
		ID:         id,
		Title:      textOr(raw.Title),
		Subject:    textOr(raw.Subject.Join()),
		Duration:   int(raw.Duration),
		TotalMarks: int(raw.TotalMarks),
		Questions:  int(raw.Questions),
		Enrolled:   countOr(raw.Enrolled, raw.EnrolledStudents),
		Status:     statusOf(raw.Status, raw.IsActive),
	}, true
}

func NormalizeTestSeries(raw facultypedia.RawTestSeries) (TestSeries, bool) {
	id := raw.Key()
	if id == "" {
		return TestSeries{}, false
	}
	tests := int(raw.NumberOfTests)
	if raw.Tests != nil {
		tests = int(*raw.Tests)
	} else if raw.TestCount > 0 {
		tests = int(raw.TestCount)
	}
	enrolled := int(raw.EnrolledCount)
	if raw.Enrolled != nil {
		enrolled = int(*raw.Enrolled)
	} else if raw.EnrolledStudents != nil {
		enrolled = int(*raw.EnrolledStudents)
	}
	return TestSeries{
		ID:           id,
		Title:        textOr(raw.Title),
		EducatorName: firstNonEmpty(raw.EducatorName, string(raw.Educator), string(raw.EducatorRef), unknownName),
		Tests:        tests,
		Enrolled:     enrolled,
		Price:        float64(raw.Price),
		Validity:     textOr(string(raw.Validity)),
		Status:       statusOf(raw.Status, raw.IsActive),
	}, true
}

func NormalizeWebinar(raw facultypedia.RawWebinar) (Webinar, bool) {
	id := raw.Key()
	if id == "" {
		return Webinar{}, false
	}
	return Webinar{
		ID:           id,
		Title:        textOr(raw.Title),
		EducatorName: firstNonEmpty(raw.EducatorName, string(raw.Educator), unknownName),
		Subject:      textOr(raw.Subject.Join()),
		Date:         firstNonEmpty(raw.Date, raw.StartTime),
		Capacity:     countOr(raw.Capacity, raw.MaxStudents),
		Enrolled:     countOr(raw.Enrolled, raw.Registered),
		Fees:         float64(raw.Fees),
		Status:       statusOf(raw.Status, raw.IsActive),
	}, true
}

// NormalizeLiveClass flattens a live class. Status is "completed" when the
// class is marked completed or its timing is in the past relative to now,
// "inactive" when the backend deactivated it, otherwise "upcoming".
func NormalizeLiveClass(raw facultypedia.RawLiveClass, now time.Time) (LiveClass, bool) {
	id := raw.Key()
	if id == "" {
		return LiveClass{}, false
	}
	timing := firstNonEmpty(raw.ClassTiming, raw.CreatedAt)
	status := "upcoming"
	if raw.IsCompleted {
		status = "completed"
	} else if at, ok := parseTime(timing); ok && at.Before(now) {
		status = "completed"
	} else if raw.IsActive != nil && !*raw.IsActive {
		status = "inactive"
	}
	return LiveClass{
		ID:           id,
		Title:        textOr(firstNonEmpty(raw.LiveClassTitle, raw.Title)),
		EducatorName: firstNonEmpty(raw.EducatorName, string(raw.Educator), string(raw.EducatorID), unknownName),
		Subject:      textOr(raw.Subject.Join()),
		Timing:       timing,
		Duration:     int(raw.ClassDuration),
		MaxStudents:  countOr(raw.MaxStudents, raw.Capacity),
		Enrolled:     countOr(raw.Enrolled, raw.EnrolledStudents),
		Status:       status,
	}, true
}

func NormalizePayout(raw facultypedia.RawPayout) (Payout, bool) {
	id := raw.Key()
	if id == "" {
		return Payout{}, false
	}
	name := string(raw.Educator)
	if name == "" {
		name = unknownName
	}
	return Payout{
		ID:           id,
		EducatorName: name,
		Amount:       float64(raw.Amount),
		Month:        int(raw.Month),
		Year:         int(raw.Year),
		Status:       firstNonEmpty(raw.Status, "pending"),
		CreatedAt:    raw.CreatedAt,
		PaidAt:       raw.PaidAt,
	}, true
}

func NormalizePayment(raw facultypedia.RawPayment) (Payment, bool) {
	id := raw.Key()
	if id == "" {
		return Payment{}, false
	}
	buyer := string(raw.User)
	if buyer == "" {
		buyer = unknownName
	}
	return Payment{
		ID:          id,
		Product:     textOr(raw.ProductSnapshot.Title),
		ProductType: textOr(raw.ProductType),
		Buyer:       buyer,
		Amount:      float64(raw.Amount),
		Status:      firstNonEmpty(raw.Status, dashText),
		CreatedAt:   raw.CreatedAt,
	}, true
}

// ---------- helpers ----------

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func textOr(s string) string {
	if s == "" {
		return dashText
	}
	return s
}

// countOr prefers the explicitly reported count and falls back to the
// derived one.
func countOr(primary *facultypedia.Count, fallback facultypedia.Count) int {
	if primary != nil {
		return int(*primary)
	}
	return int(fallback)
}

func statusOf(status string, isActive *bool) string {
	if status != "" {
		return status
	}
	if isActive != nil && !*isActive {
		return "inactive"
	}
	return "active"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
