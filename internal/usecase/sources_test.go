package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResumeRepo map[int64]repository.Resume

func (s stubResumeRepo) FindByID(_ context.Context, id int64) (repository.Resume, error) {
	r, ok := s[id]
	if !ok {
		return repository.Resume{}, repository.ErrNotFound
	}
	return r, nil
}

type stubFetcher map[string][]byte

func (s stubFetcher) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := s[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return b, nil
}

func TestRepositoryResumeSource_ResumeText(t *testing.T) {
	repo := stubResumeRepo{
		1: {ID: 1, Content: "  inline text  "},
		2: {ID: 2, ObjectKey: "resumes/2.txt", MimeType: "text/plain"},
		3: {ID: 3, ObjectKey: "resumes/3.txt", MimeType: "text/plain"},
	}
	src := NewRepositoryResumeSource(repo, stubFetcher{"resumes/2.txt": []byte("from storage\n")})

	text, err := src.ResumeText(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "inline text", text)

	text, err = src.ResumeText(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "from storage", text)

	_, err = src.ResumeText(context.Background(), 3)
	require.Error(t, err)

	_, err = src.ResumeText(context.Background(), 9)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestRepositoryResumeSource_NoStorage(t *testing.T) {
	src := NewRepositoryResumeSource(stubResumeRepo{4: {ID: 4, ObjectKey: "k", MimeType: "application/pdf"}}, nil)
	_, err := src.ResumeText(context.Background(), 4)
	assert.ErrorIs(t, err, errNoResumeFile)
}

func TestRepositoryResumeSource_ResolveResume(t *testing.T) {
	src := NewRepositoryResumeSource(stubResumeRepo{5: {ID: 5, CandidateName: "Jane", Title: "SRE"}}, nil)
	ref, err := src.ResolveResume(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Jane", ref.CandidateName)
}
