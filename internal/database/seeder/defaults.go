package seeder

func Defaults() []Seeder {
	return []Seeder{
		JobsSeeder{Jobs: SampleJobs},
		ResumesSeeder{Resumes: SampleResumes},
	}
}
