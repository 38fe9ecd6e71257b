package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"educater_backend/internal/schools/domain"
	"educater_backend/internal/schools/repository"
	"educater_backend/platform/apperr"
	"educater_backend/platform/events"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// stubRepo is an in-memory repository.Repository with injectable failures.
type stubRepo struct {
	schools map[uuid.UUID]domain.School

	listErr      error
	listNamesErr error
	updateErr    error
}

func newStubRepo(schools ...domain.School) *stubRepo {
	r := &stubRepo{schools: make(map[uuid.UUID]domain.School)}
	for _, s := range schools {
		r.schools[s.ID] = s
	}
	return r
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (domain.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return domain.School{}, apperr.NotFound("school not found")
	}
	return s, nil
}

func (r *stubRepo) List(_ context.Context) ([]domain.School, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.School, 0, len(r.schools))
	for _, s := range r.schools {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubRepo) ListNames(_ context.Context) ([]string, error) {
	if r.listNamesErr != nil {
		return nil, r.listNamesErr
	}
	names := make([]string, 0, len(r.schools))
	for _, s := range r.schools {
		names = append(names, s.Name)
	}
	return names, nil
}

func (r *stubRepo) Stats(_ context.Context) (repository.PipelineStats, error) {
	stats := repository.PipelineStats{ByStage: make(map[string]int)}
	for _, s := range r.schools {
		stats.ByStage[string(s.Stage)]++
		stats.Total++
		stats.TotalCommission += s.CommissionEarned
	}
	return stats, nil
}

func (r *stubRepo) Create(_ context.Context, params repository.CreateParams) (domain.School, error) {
	s := domain.School{
		ID:             uuid.New(),
		Name:           params.Name,
		PrincipalName:  params.PrincipalName,
		PrincipalEmail: params.PrincipalEmail,
		SecretaryEmail: params.SecretaryEmail,
		Track:          params.Track,
		StudentCount:   params.StudentCount,
		Notes:          params.Notes,
		Stage:          domain.StageColdLead,
		Version:        1,
	}
	r.schools[s.ID] = s
	return s, nil
}

func (r *stubRepo) ApplyStageMutation(_ context.Context, id uuid.UUID, m domain.StageMutation) (domain.School, error) {
	if r.updateErr != nil {
		return domain.School{}, r.updateErr
	}
	s, ok := r.schools[id]
	if !ok {
		return domain.School{}, apperr.NotFound("school not found")
	}
	if s.Version != m.ExpectedVersion {
		return domain.School{}, apperr.Conflict("school was modified by someone else; reload and retry")
	}
	s = m.Apply(s)
	r.schools[id] = s
	return s, nil
}

func (r *stubRepo) ApplyContactMutation(_ context.Context, id uuid.UUID, m domain.ContactMutation) (domain.School, error) {
	if r.updateErr != nil {
		return domain.School{}, r.updateErr
	}
	s, ok := r.schools[id]
	if !ok {
		return domain.School{}, apperr.NotFound("school not found")
	}
	if s.Version != m.ExpectedVersion {
		return domain.School{}, apperr.Conflict("school was modified by someone else; reload and retry")
	}
	s = m.Apply(s)
	r.schools[id] = s
	return s, nil
}

func (r *stubRepo) SetRepAssignment(_ context.Context, id uuid.UUID, repID, repName *string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	s, ok := r.schools[id]
	if !ok {
		return apperr.NotFound("school not found")
	}
	s.SalesRepID = repID
	s.SalesRepName = repName
	r.schools[id] = s
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.schools, id)
	return nil
}

// recordingBus captures published events so tests can assert on them.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(repo repository.Repository) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("test"))
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}
	return svc, bus
}

func TestAdvanceStageEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc, bus := newTestService(repo)

	school, err := svc.Create(ctx, repository.CreateParams{
		Name:           "Oakdale Primary",
		PrincipalName:  "T. Jacobs",
		PrincipalEmail: "principal@oakdale.co.za",
		Track:          domain.TrackAcquisition,
		StudentCount:   540,
	}, "thandi")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if school.Stage != domain.StageColdLead {
		t.Fatalf("new lead stage = %q, want %q", school.Stage, domain.StageColdLead)
	}

	rep := domain.RepRef{ID: "rep-thandi", Name: "Thandi Nkosi"}
	path := []domain.Stage{
		domain.StageEmailSent,
		domain.StageMoreInfoRequested,
		domain.StageAppointmentBooked,
		domain.StageFinalizing,
	}
	for _, target := range path {
		school, err = svc.AdvanceStage(ctx, school.ID, target, rep)
		if err != nil {
			t.Fatalf("AdvanceStage to %q: %v", target, err)
		}
		if school.Stage != target {
			t.Fatalf("stage after advance = %q, want %q", school.Stage, target)
		}
	}

	if school.SalesRepID == nil || *school.SalesRepID != rep.ID {
		t.Errorf("SalesRepID = %v, want %q", school.SalesRepID, rep.ID)
	}
	if school.SalesRepName == nil || *school.SalesRepName != rep.Name {
		t.Errorf("SalesRepName = %v, want %q", school.SalesRepName, rep.Name)
	}
	wantDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !school.LastContactDate.Equal(wantDate) {
		t.Errorf("LastContactDate = %v, want %v", school.LastContactDate, wantDate)
	}

	// One created event plus one per advance.
	if got, want := len(bus.published), 1+len(path); got != want {
		t.Fatalf("published %d events, want %d", got, want)
	}
	if name := bus.published[len(bus.published)-1].EventName(); name != "schools.stage.changed" {
		t.Errorf("last event = %q, want schools.stage.changed", name)
	}
}

func TestAdvanceStageRejectsSkip(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc, _ := newTestService(repo)

	school, err := svc.Create(ctx, repository.CreateParams{Name: "Mitchell Heights High", Track: domain.TrackAcquisition}, "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.AdvanceStage(ctx, school.ID, domain.StageFinalizing, domain.RepRef{ID: "rep-1", Name: "Lindiwe"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("skip advance kind = %v, want validation (err=%v)", apperr.GetKind(err), err)
	}

	got, err := repo.GetByID(ctx, school.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Stage != domain.StageColdLead {
		t.Errorf("stage after rejected advance = %q, want unchanged %q", got.Stage, domain.StageColdLead)
	}
}

func TestCreateRejectsFuzzyDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo(domain.School{
		ID:    uuid.New(),
		Name:  "Greenwood High School",
		Stage: domain.StageEmailSent,
	})
	svc, bus := newTestService(repo)

	cases := []string{
		"Greenwood High School",
		"  greenwood  high  school ",
		"Greenwood Secondary School",
		"Greenwood High Schol",
	}
	for _, name := range cases {
		_, err := svc.Create(ctx, repository.CreateParams{Name: name, Track: domain.TrackAcquisition}, "admin")
		if apperr.GetKind(err) != apperr.KindConflict {
			t.Errorf("Create(%q) kind = %v, want conflict (err=%v)", name, apperr.GetKind(err), err)
		}
	}
	if len(bus.published) != 0 {
		t.Errorf("rejected creations published %d events, want 0", len(bus.published))
	}

	if _, err := svc.Create(ctx, repository.CreateParams{Name: "Silverleaf Academy", Track: domain.TrackEngagement}, "admin"); err != nil {
		t.Errorf("Create(distinct name): %v", err)
	}
}

func TestCreateFailsOpenWhenLookupErrors(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	repo.listNamesErr = errors.New("connection refused")
	svc, _ := newTestService(repo)

	school, err := svc.Create(ctx, repository.CreateParams{Name: "Oakdale Primary", Track: domain.TrackAcquisition}, "admin")
	if err != nil {
		t.Fatalf("fail-open create: %v", err)
	}
	if school.Name != "Oakdale Primary" {
		t.Errorf("created name = %q", school.Name)
	}

	svc.onLookupFailure = DuplicateCheckFailClosed
	_, err = svc.Create(ctx, repository.CreateParams{Name: "Oakdale Primary 2", Track: domain.TrackAcquisition}, "admin")
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Errorf("fail-closed create kind = %v, want internal (err=%v)", apperr.GetKind(err), err)
	}
}

func TestAdvanceStageSurfacesVersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc, _ := newTestService(repo)

	school, err := svc.Create(ctx, repository.CreateParams{Name: "Kloofside College", Track: domain.TrackAcquisition}, "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Simulate a concurrent edit landing between the read and the write.
	stale := repo.schools[school.ID]
	stale.Version++
	repo.schools[school.ID] = stale

	_, err = svc.AdvanceStage(ctx, school.ID, domain.StageEmailSent, domain.RepRef{ID: "rep-1", Name: "Lindiwe"})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("stale advance kind = %v, want conflict (err=%v)", apperr.GetKind(err), err)
	}
}

func TestListReconcilesLegacyAssignments(t *testing.T) {
	ctx := context.Background()
	legacyID := domain.LegacyAdminID
	legacyName := domain.LegacyAdminName
	repID := "rep-9"
	repName := "Sibusiso Dlamini"

	late := domain.School{
		ID: uuid.New(), Name: "Westbrook High", Stage: domain.StageFinalizing,
		SalesRepID: &legacyID, SalesRepName: &legacyName, Version: 3,
	}
	early := domain.School{
		ID: uuid.New(), Name: "Eastvale Primary", Stage: domain.StageEmailSent,
		SalesRepID: &repID, SalesRepName: &repName, Version: 2,
	}
	clean := domain.School{
		ID: uuid.New(), Name: "Northgate Academy", Stage: domain.StageAppointmentBooked,
		SalesRepID: &repID, SalesRepName: &repName, Version: 1,
	}
	repo := newStubRepo(late, early, clean)
	svc, _ := newTestService(repo)

	out, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	byID := make(map[uuid.UUID]domain.School, len(out))
	for _, s := range out {
		byID[s.ID] = s
	}

	if got := byID[late.ID]; got.SalesRepName == nil || *got.SalesRepName != domain.CanonicalAdminName {
		t.Errorf("legacy late-stage rep name = %v, want %q", got.SalesRepName, domain.CanonicalAdminName)
	}
	if got := byID[early.ID]; got.SalesRepID != nil || got.SalesRepName != nil {
		t.Errorf("early-stage assignment not cleared: id=%v name=%v", got.SalesRepID, got.SalesRepName)
	}
	if got := byID[clean.ID]; got.SalesRepID == nil || *got.SalesRepID != repID {
		t.Errorf("valid assignment was disturbed: %v", got.SalesRepID)
	}

	// The corrections must have been written back.
	stored, err := repo.GetByID(ctx, early.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.SalesRepID != nil {
		t.Errorf("write-back missing: stored rep id = %v", stored.SalesRepID)
	}
}

func TestListReturnsCorrectedViewWhenWriteBackFails(t *testing.T) {
	ctx := context.Background()
	legacyID := domain.LegacyAdminID
	legacyName := domain.LegacyAdminName
	s := domain.School{
		ID: uuid.New(), Name: "Westbrook High", Stage: domain.StageColdLead,
		SalesRepID: &legacyID, SalesRepName: &legacyName, Version: 1,
	}
	repo := newStubRepo(s)
	repo.updateErr = errors.New("write timeout")
	svc, _ := newTestService(repo)

	out, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d", len(out))
	}
	if out[0].SalesRepID != nil {
		t.Errorf("returned view not corrected: %v", out[0].SalesRepID)
	}
}

func TestUpdateContactInfoStampsEditor(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc, _ := newTestService(repo)

	school, err := svc.Create(ctx, repository.CreateParams{
		Name:           "Oakdale Primary",
		PrincipalName:  "T. Jacobs",
		PrincipalEmail: "principal@oakdale.co.za",
		Track:          domain.TrackAcquisition,
		StudentCount:   540,
	}, "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	count := 612
	updated, err := svc.UpdateContactInfo(ctx, school.ID, domain.ContactUpdate{StudentCount: &count}, "Keagan Smith")
	if err != nil {
		t.Fatalf("UpdateContactInfo: %v", err)
	}
	if updated.StudentCount != 612 {
		t.Errorf("StudentCount = %d, want 612", updated.StudentCount)
	}
	if updated.PrincipalName != "T. Jacobs" {
		t.Errorf("PrincipalName changed on partial update: %q", updated.PrincipalName)
	}
	if updated.LastEditedBy == nil || *updated.LastEditedBy != "Keagan Smith" {
		t.Errorf("LastEditedBy = %v, want Keagan Smith", updated.LastEditedBy)
	}
	if updated.LastEditedAt == nil || !updated.LastEditedAt.Equal(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)) {
		t.Errorf("LastEditedAt = %v", updated.LastEditedAt)
	}
}

func TestReconcileReportsCount(t *testing.T) {
	ctx := context.Background()
	legacyID := domain.LegacyAdminID
	legacyName := domain.LegacyAdminName
	a := domain.School{ID: uuid.New(), Name: "A High", Stage: domain.StageFinalizing, SalesRepID: &legacyID, SalesRepName: &legacyName}
	b := domain.School{ID: uuid.New(), Name: "B High", Stage: domain.StageColdLead, SalesRepID: &legacyID, SalesRepName: &legacyName}
	c := domain.School{ID: uuid.New(), Name: "C High", Stage: domain.StageColdLead}
	repo := newStubRepo(a, b, c)
	svc, _ := newTestService(repo)

	n, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if n != 2 {
		t.Errorf("Reconcile corrected %d, want 2", n)
	}

	n, err = svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if n != 0 {
		t.Errorf("second Reconcile corrected %d, want 0", n)
	}
}
