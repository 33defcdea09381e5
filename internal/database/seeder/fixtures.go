package seeder

import (
	"context"
	"fmt"

	"talent-match/internal/database"
)

type SampleJob struct {
	Title       string
	Company     string
	Location    string
	Description string
}

type SampleResume struct {
	CandidateName string
	Title         string
	Content       string
}

var SampleJobs = []SampleJob{
	{
		Title:    "Backend Engineer (Go)",
		Company:  "Acme Logistics",
		Location: "Remote",
		Description: "We build shipment tracking services in Go on PostgreSQL and Redis. " +
			"You have 3+ years of backend experience, a Bachelor's degree in Computer Science or similar, " +
			"and are comfortable with Docker and Kubernetes. Fluent English required.",
	},
	{
		Title:       "Data Analyst",
		Company:     "Northwind",
		Location:    "Berlin",
		Description: "SQL and Python for reporting. Tableau is a plus. German and English.",
	},
	{
		Title:       "Support Engineer",
		Company:     "Initech",
		Location:    "Jakarta",
		Description: "Help customers debug integrations. Curiosity matters more than credentials.",
	},
}

var SampleResumes = []SampleResume{
	{
		CandidateName: "Jane Doe",
		Title:         "Senior Software Engineer",
		Content: "Education: BSc Computer Science, 2016.\n" +
			"Experience: 6 years building Go microservices with PostgreSQL, Redis and Kubernetes.\n" +
			"Projects: event pipeline in Go and Kafka.\nLanguages: English (fluent), Indonesian (native).",
	},
	{
		CandidateName: "Max Mustermann",
		Title:         "Junior Analyst",
		Content: "Education: MSc Economics.\nExperience: 1 year of SQL reporting, Excel.\n" +
			"Languages: German (native), English (B2).",
	},
}

// JobsSeeder inserts sample jobs that are not present yet, keyed by title
// and company.
type JobsSeeder struct {
	Jobs []SampleJob
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "company", "location", "description"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, j := range s.Jobs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (title, company, location, description)
			 SELECT $1, $2, $3, $4
			 WHERE NOT EXISTS (SELECT 1 FROM jobs WHERE title = $1 AND company = $2)`,
			j.Title, j.Company, j.Location, j.Description,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ResumesSeeder inserts sample résumés keyed by candidate name.
type ResumesSeeder struct {
	Resumes []SampleResume
}

func (ResumesSeeder) Name() string { return "resumes" }

func (s ResumesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "resumes", "id", "candidate_name", "title", "content"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, r := range s.Resumes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO resumes (candidate_name, title, content)
			 SELECT $1, $2, $3
			 WHERE NOT EXISTS (SELECT 1 FROM resumes WHERE candidate_name = $1)`,
			r.CandidateName, r.Title, r.Content,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
