package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/health"
	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/repository"
)

const testCondoID int64 = 7

var errBackendDown = errors.New("backend down")

// fakeGateway is an in-memory backend with failure injection. It does not
// deduplicate visits by client reference, so duplicate pushes show up.
type fakeGateway struct {
	mu     sync.Mutex
	nextID int64

	visits    map[int64]models.Visit
	incidents map[int64]models.Incident
	lookups   map[models.LookupKind][]models.Lookup
	units     []models.Unit
	staff     []models.Staff
	pins      map[int64]string
	devices   map[string]*models.DeviceRecord
	condos    map[int64]models.Condominium

	createCalls int
	uploadCalls int
	heartbeats  int
	registered  []models.DeviceRecord
	lookupCalls int

	down               bool
	failCreate         int
	rejectCreate       int
	loseCreateResponse int
	failUpload         bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nextID:    1000,
		visits:    make(map[int64]models.Visit),
		incidents: make(map[int64]models.Incident),
		lookups:   make(map[models.LookupKind][]models.Lookup),
		pins:      make(map[int64]string),
		devices:   make(map[string]*models.DeviceRecord),
		condos: map[int64]models.Condominium{
			testCondoID: {ID: testCondoID, Name: "Residencial Jardins", Address: "Rua das Flores 100"},
			8:           {ID: 8, Name: "Edificio Aurora"},
		},
	}
}

func (f *fakeGateway) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeGateway) remoteVisits() []models.Visit {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Visit, 0, len(f.visits))
	for _, v := range f.visits {
		out = append(out, v)
	}
	return out
}

func (f *fakeGateway) counts() (creates, uploads, heartbeats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.uploadCalls, f.heartbeats
}

func (f *fakeGateway) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errBackendDown
	}
	return nil
}

func (f *fakeGateway) ListLookups(ctx context.Context, kind models.LookupKind, condoID int64) ([]models.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	if f.down {
		return nil, errBackendDown
	}
	return append([]models.Lookup(nil), f.lookups[kind]...), nil
}

func (f *fakeGateway) ListUnits(ctx context.Context, condoID int64) ([]models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	var out []models.Unit
	for _, u := range f.units {
		if u.CondoID == condoID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListStaff(ctx context.Context, condoID int64) ([]models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	var out []models.Staff
	for _, s := range f.staff {
		if s.CondoID == condoID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListVisits(ctx context.Context, condoID int64, from, to time.Time) ([]models.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	var out []models.Visit
	for _, v := range f.visits {
		if v.CondoID == condoID && !v.CheckInAt.Before(from) && v.CheckInAt.Before(to) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListIncidents(ctx context.Context, condoID int64) ([]models.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	var out []models.Incident
	for _, i := range f.incidents {
		if i.CondoID == condoID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateVisit(ctx context.Context, v *models.Visit) (*models.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.down {
		return nil, errBackendDown
	}
	if f.failCreate > 0 {
		f.failCreate--
		return nil, errBackendDown
	}
	if f.rejectCreate > 0 {
		f.rejectCreate--
		return nil, nil
	}

	f.nextID++
	stored := *v
	stored.ID = models.RemoteID(f.nextID)
	stored.PhotoData = ""
	stored.SyncStatus = ""
	stored.SyncAttempts = 0
	f.visits[f.nextID] = stored

	if f.loseCreateResponse > 0 {
		f.loseCreateResponse--
		return nil, errors.New("connection reset after write")
	}
	out := stored
	return &out, nil
}

func (f *fakeGateway) FindVisitByClientRef(ctx context.Context, ref string) (*models.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	for _, v := range f.visits {
		if v.ClientRef == ref {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeGateway) UpdateVisit(ctx context.Context, id int64, upd models.VisitUpdate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false, errBackendDown
	}
	v, ok := f.visits[id]
	if !ok {
		return false, nil
	}
	v.Status = upd.Status
	v.CheckOutAt = upd.CheckOutAt
	if upd.PhotoURL != "" {
		v.PhotoURL = upd.PhotoURL
	}
	f.visits[id] = v
	return true, nil
}

func (f *fakeGateway) UpdateIncident(ctx context.Context, id int64, upd models.IncidentUpdate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false, errBackendDown
	}
	i, ok := f.incidents[id]
	if !ok {
		return false, nil
	}
	i.Status = upd.Status
	i.AcknowledgedAt = upd.AcknowledgedAt
	i.AcknowledgedBy = upd.AcknowledgedBy
	i.GuardNotes = upd.GuardNotes
	i.ResolvedAt = upd.ResolvedAt
	f.incidents[id] = i
	return true, nil
}

func (f *fakeGateway) UploadPhoto(ctx context.Context, dataURL string, condoID int64, label string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.down || f.failUpload {
		return "", errBackendDown
	}
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil
	}
	return "https://cdn.example.com/photos/" + label + ".jpg", nil
}

func (f *fakeGateway) GetDevice(ctx context.Context, identifier string) (*models.DeviceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	rec, ok := f.devices[identifier]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

func (f *fakeGateway) RegisterDevice(ctx context.Context, rec *models.DeviceRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false, errBackendDown
	}
	stored := *rec
	f.devices[rec.Identifier] = &stored
	f.registered = append(f.registered, stored)
	return true, nil
}

func (f *fakeGateway) UpdateHeartbeat(ctx context.Context, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errBackendDown
	}
	f.heartbeats++
	return nil
}

func (f *fakeGateway) GetCondominium(ctx context.Context, id int64) (*models.Condominium, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	c, ok := f.condos[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeGateway) VerifyLogin(ctx context.Context, first, last, pin string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errBackendDown
	}
	for _, s := range f.staff {
		if s.Matches(first, last) && f.pins[s.ID] == pin {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

var _ Gateway = (*fakeGateway)(nil)

// testEnv is a full engine over a real sqlite file and the fake backend
type testEnv struct {
	store   *repository.Store
	backup  *repository.ConfigBackup
	gw      *fakeGateway
	monitor *health.Monitor
	devices *DeviceService
	sync    *SyncService
	auth    *AuthService
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := observability.NewNopLogger()

	db, err := repository.OpenLocalStore(filepath.Join(dir, "frontdesk.db"), logger)
	require.NoError(t, err)
	store := repository.NewStore(db)

	env := &testEnv{
		store:   store,
		backup:  repository.NewConfigBackup(filepath.Join(dir, "device-config.json")),
		gw:      newFakeGateway(),
		monitor: health.NewMonitor(health.Options{Logger: logger}),
		now:     time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	env.devices = NewDeviceService(DeviceOptions{
		Store:      store,
		Backup:     env.backup,
		Gateway:    env.gw,
		Health:     env.monitor,
		Logger:     logger,
		Name:       "front-desk-test",
		AppVersion: "test",
		Clock:      clock,
	})
	env.sync = NewSyncService(SyncOptions{
		Gateway:  env.gw,
		Health:   env.monitor,
		Store:    store,
		Devices:  env.devices,
		Photos:   NewPhotoService(64, 80, logger),
		Logger:   logger,
		Location: time.UTC,
		Clock:    clock,
		Timers:   []Stoppable{env.monitor},
	})
	env.auth = NewAuthService(env.gw, env.monitor, store.Staff, env.devices, nil, logger)

	t.Cleanup(func() {
		env.sync.Shutdown(context.Background())
		store.Close()
	})
	return env
}

// configure binds the device to testCondoID through the backend
func (e *testEnv) configure(t *testing.T) {
	t.Helper()
	_, err := e.devices.Configure(context.Background(), testCondoID)
	require.NoError(t, err)
}

func (e *testEnv) goOffline() {
	e.monitor.ReportOnline(false)
}

func (e *testEnv) goOnline() {
	e.monitor.ReportOnline(true)
}

func int64Ptr(v int64) *int64 { return &v }

func visitRequest(name string, unitID int64) models.CreateVisitRequest {
	return models.CreateVisitRequest{
		VisitorName: name,
		VisitTypeID: 1,
		UnitID:      int64Ptr(unitID),
		GuardID:     42,
	}
}

// pngDataURL renders a w x h image as a PNG data URL
func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
