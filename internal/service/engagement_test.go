package service_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"job-finder/internal/domain"
	"job-finder/internal/service"
)

func TestApply_SecondApplicationIsRejected(t *testing.T) {
	f := newFixture(t)
	f.login(t, "auth0|alice", "Alice")
	bob := f.login(t, "auth0|bob", "Bob")
	job := f.post(t, "auth0|alice", validInput("Engineer", "Berlin"))
	ctx := context.Background()

	applied, err := f.jobs.Apply(ctx, job.ID, "auth0|bob")
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if !slices.Equal(applied.Applicants, []string{bob.ID}) {
		t.Fatalf("Applicants after first apply = %v, want [%s]", applied.Applicants, bob.ID)
	}

	if _, err := f.jobs.Apply(ctx, job.ID, "auth0|bob"); !errors.Is(err, service.ErrAlreadyApplied) {
		t.Fatalf("second Apply err = %v, want ErrAlreadyApplied", err)
	}

	stored, err := f.jobs.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if len(stored.Applicants) != 1 {
		t.Errorf("Applicants length = %d after duplicate apply, want 1", len(stored.Applicants))
	}
}

func TestApply_NotFound(t *testing.T) {
	f := newFixture(t)
	f.login(t, "auth0|alice", "Alice")
	job := f.post(t, "auth0|alice", validInput("Engineer", "Berlin"))
	ctx := context.Background()

	if _, err := f.jobs.Apply(ctx, domain.NewID(), "auth0|alice"); !errors.Is(err, service.ErrJobNotFound) {
		t.Errorf("Apply(missing job) err = %v, want ErrJobNotFound", err)
	}
	if _, err := f.jobs.Apply(ctx, job.ID, "auth0|ghost"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("Apply(unknown user) err = %v, want ErrUserNotFound", err)
	}
}

func TestToggleLike_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.login(t, "auth0|alice", "Alice")
	bob := f.login(t, "auth0|bob", "Bob")
	carol := f.login(t, "auth0|carol", "Carol")
	job := f.post(t, "auth0|alice", validInput("Engineer", "Berlin"))
	ctx := context.Background()

	if _, _, err := f.jobs.ToggleLike(ctx, job.ID, "auth0|carol"); err != nil {
		t.Fatalf("carol like: %v", err)
	}

	liked, isLiked, err := f.jobs.ToggleLike(ctx, job.ID, "auth0|bob")
	if err != nil {
		t.Fatalf("bob like: %v", err)
	}
	if !isLiked || !slices.Equal(liked.Likes, []string{carol.ID, bob.ID}) {
		t.Fatalf("after like: liked=%v likes=%v", isLiked, liked.Likes)
	}

	unliked, isLiked, err := f.jobs.ToggleLike(ctx, job.ID, "auth0|bob")
	if err != nil {
		t.Fatalf("bob unlike: %v", err)
	}
	if isLiked || !slices.Equal(unliked.Likes, []string{carol.ID}) {
		t.Fatalf("after unlike: liked=%v likes=%v, want [%s]", isLiked, unliked.Likes, carol.ID)
	}

	stored, err := f.jobs.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if !slices.Equal(stored.Likes, []string{carol.ID}) {
		t.Errorf("stored likes = %v, want [%s]", stored.Likes, carol.ID)
	}
}

func TestToggleLike_NotFound(t *testing.T) {
	f := newFixture(t)
	f.login(t, "auth0|alice", "Alice")
	job := f.post(t, "auth0|alice", validInput("Engineer", "Berlin"))

	if _, _, err := f.jobs.ToggleLike(context.Background(), domain.NewID(), "auth0|alice"); !errors.Is(err, service.ErrJobNotFound) {
		t.Errorf("ToggleLike(missing job) err = %v, want ErrJobNotFound", err)
	}
	if _, _, err := f.jobs.ToggleLike(context.Background(), job.ID, ""); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("ToggleLike(no subject) err = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t)
	f.login(t, "auth0|alice", "Alice")
	f.login(t, "auth0|bob", "Bob")
	job := f.post(t, "auth0|alice", validInput("Engineer", "Berlin"))
	ctx := context.Background()

	if _, err := f.jobs.DeleteJob(ctx, domain.NewID(), "auth0|alice"); !errors.Is(err, service.ErrJobNotFound) {
		t.Fatalf("DeleteJob(missing) err = %v, want ErrJobNotFound", err)
	}
	if n := len(f.store.jobs); n != 1 {
		t.Fatalf("store has %d jobs after failed delete, want 1", n)
	}

	if _, err := f.jobs.DeleteJob(ctx, job.ID, "auth0|ghost"); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("DeleteJob(unknown user) err = %v, want ErrUserNotFound", err)
	}

	// any authenticated user may delete a posting
	if _, err := f.jobs.DeleteJob(ctx, job.ID, "auth0|bob"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if _, err := f.jobs.GetJob(ctx, job.ID); !errors.Is(err, service.ErrJobNotFound) {
		t.Errorf("GetJob after delete err = %v, want ErrJobNotFound", err)
	}
}

func TestSetLogo_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.login(t, "auth0|alice", "Alice")
	f.login(t, "auth0|bob", "Bob")
	job := f.post(t, "auth0|alice", validInput("Engineer", "Berlin"))
	ctx := context.Background()

	if _, err := f.jobs.SetLogo(ctx, job.ID, "auth0|bob", "logos/x.png"); !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("SetLogo by non owner err = %v, want ErrNotOwner", err)
	}
	updated, err := f.jobs.SetLogo(ctx, job.ID, "auth0|alice", "logos/x.png")
	if err != nil {
		t.Fatalf("SetLogo: %v", err)
	}
	if updated.LogoKey != "logos/x.png" {
		t.Errorf("LogoKey = %q", updated.LogoKey)
	}
}
