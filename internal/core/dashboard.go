package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DashboardStats holds aggregate counts over the issuance and verification
// ledgers.
type DashboardStats struct {
	CertificatesTotal       int           `json:"certificates_total"`
	CertificatesLast30Days  int           `json:"certificates_last_30_days"`
	VerificationsTotal      int           `json:"verifications_total"`
	VerificationsLast30Days int           `json:"verifications_last_30_days"`
	Students                int           `json:"students"`
	Trainers                int           `json:"trainers"`
	TopCourses              []CourseCount `json:"top_courses"`
}

// CourseCount holds an issuance count grouped by course.
type CourseCount struct {
	CourseName string `json:"course_name"`
	Count      int    `json:"count"`
}

// DashboardService queries aggregate stats from the ledgers.
type DashboardService struct {
	db DB
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats runs the count queries in parallel and assembles the result.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	counts := []struct {
		sql  string
		dest *int
	}{
		{`SELECT count(*) FROM issued_certificates`, &stats.CertificatesTotal},
		{`SELECT count(*) FROM issued_certificates WHERE issued_at > now() - interval '30 days'`, &stats.CertificatesLast30Days},
		{`SELECT count(*) FROM admission_verifications`, &stats.VerificationsTotal},
		{`SELECT count(*) FROM admission_verifications WHERE verified_at > now() - interval '30 days'`, &stats.VerificationsLast30Days},
		{`SELECT count(DISTINCT cedula) FROM issued_certificates`, &stats.Students},
		{`SELECT count(*) FROM trainers`, &stats.Trainers},
	}
	for _, c := range counts {
		g.Go(func() error {
			if err := s.db.QueryRow(gctx, c.sql).Scan(c.dest); err != nil {
				return fmt.Errorf("dashboard count: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		rows, err := s.db.Query(gctx,
			`SELECT course_name, count(*) FROM issued_certificates
			 WHERE course_name != ''
			 GROUP BY course_name ORDER BY count(*) DESC LIMIT 10`)
		if err != nil {
			return fmt.Errorf("dashboard top courses: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var c CourseCount
			if err := rows.Scan(&c.CourseName, &c.Count); err != nil {
				return fmt.Errorf("scan course count: %w", err)
			}
			stats.TopCourses = append(stats.TopCourses, c)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
