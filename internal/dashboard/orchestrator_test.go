package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/dashboard"
	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/weather"
)

// fakeWeather serves canned reports. A city with a gate blocks until the
// gate is closed.
type fakeWeather struct {
	mu       sync.Mutex
	searches []string
	langs    []string
	locates  int
	gates    map[string]chan struct{}
	errs     map[string]error
	place    string
	locErr   error
}

func newFakeWeather() *fakeWeather {
	return &fakeWeather{
		gates: make(map[string]chan struct{}),
		errs:  make(map[string]error),
		place: "Istanbul",
	}
}

func (f *fakeWeather) gate(city string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[city] = ch
	return ch
}

func (f *fakeWeather) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeWeather) Search(ctx context.Context, city, lang string) (*weather.Report, error) {
	f.mu.Lock()
	f.searches = append(f.searches, city)
	f.langs = append(f.langs, lang)
	gate := f.gates[city]
	err := f.errs[city]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	return testReport(city), nil
}

func (f *fakeWeather) Locate(_ context.Context, _ weather.Coordinates, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locates++
	if f.locErr != nil {
		return "", f.locErr
	}
	return f.place, nil
}

func testReport(city string) *weather.Report {
	start := time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC)
	samples := make([]weather.Sample, 40)
	for i := range samples {
		samples[i] = weather.Sample{
			Time:          start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature:   float64(i),
			Humidity:      50,
			ConditionCode: 801,
		}
	}

	return &weather.Report{
		Current: &weather.Current{
			Sample:   weather.Sample{Time: start, Temperature: 15.2, Humidity: 70, ConditionCode: 800},
			Place:    city,
			Country:  "GB",
			Location: time.UTC,
		},
		Forecast: &weather.Forecast{City: city, Location: time.UTC, Samples: samples},
	}
}

type fixture struct {
	weather *fakeWeather
	repo    *settings.InMemoryRepository
	dash    *dashboard.Orchestrator
	client  dashboard.Client
}

func newFixture() *fixture {
	fw := newFakeWeather()
	repo := settings.NewInMemoryRepository()
	svc := settings.NewService(settings.ServiceConfig{Repository: repo, Logger: zerolog.Nop()})

	return &fixture{
		weather: fw,
		repo:    repo,
		dash: dashboard.New(dashboard.Config{
			Weather:  fw,
			Settings: svc,
			Logger:   zerolog.Nop(),
		}),
		client: dashboard.Client{ID: "client-1", Fallback: i18n.English},
	}
}

func TestOrchestrator_Search(t *testing.T) {
	f := newFixture()

	result, err := f.dash.Search(context.Background(), f.client, "  London ")
	require.NoError(t, err)

	assert.Equal(t, "London", result.City)
	assert.Equal(t, "15°C", result.Dashboard.Summary.Temperature)
	assert.Len(t, result.Dashboard.Forecast, 5)
	assert.Len(t, result.Dashboard.Chart.Data.Labels, 8)
	assert.Equal(t, settings.ThemeLight, result.Settings.Theme)
	assert.Equal(t, "London", f.dash.LastCity("client-1"))
	assert.Equal(t, []string{"en"}, f.weather.langs)
}

func TestOrchestrator_SearchEmpty(t *testing.T) {
	f := newFixture()

	for _, city := range []string{"", "   "} {
		_, err := f.dash.Search(context.Background(), f.client, city)
		assert.ErrorIs(t, err, dashboard.ErrEmptyQuery)
	}
	assert.Zero(t, f.weather.searchCount())
}

func TestOrchestrator_SearchNotFound(t *testing.T) {
	f := newFixture()
	f.weather.errs["Zzzzz"] = weather.ErrCityNotFound

	_, err := f.dash.Search(context.Background(), f.client, "Zzzzz")
	require.ErrorIs(t, err, weather.ErrCityNotFound)

	assert.Equal(t, "City not found", dashboard.Notice(err, i18n.English))
	assert.Equal(t, "Şehir bulunamadı", dashboard.Notice(err, i18n.Turkish))
	assert.Empty(t, f.dash.LastCity("client-1"), "failed searches leave the previous view")
}

func TestNotice_Generic(t *testing.T) {
	err := errors.Join(weather.ErrProviderUnavailable, errors.New("status 500"))
	assert.Equal(t, "Error fetching weather data", dashboard.Notice(err, i18n.English))
	assert.Equal(t, "Hava durumu verileri alınırken hata oluştu", dashboard.Notice(err, i18n.Turkish))
	assert.Equal(t, "Error fetching weather data", dashboard.Notice(weather.ErrMalformedResponse, i18n.English))
}

func TestOrchestrator_StaleSearchIsDiscarded(t *testing.T) {
	f := newFixture()
	slow := f.weather.gate("Paris")

	type outcome struct {
		result *dashboard.Result
		err    error
	}
	first := make(chan outcome, 1)

	go func() {
		r, err := f.dash.Search(context.Background(), f.client, "Paris")
		first <- outcome{r, err}
	}()

	require.Eventually(t, func() bool { return f.weather.searchCount() == 1 }, time.Second, 5*time.Millisecond)

	second, err := f.dash.Search(context.Background(), f.client, "London")
	require.NoError(t, err)
	assert.Equal(t, "London", second.City)

	close(slow)

	got := <-first
	assert.Nil(t, got.result)
	assert.ErrorIs(t, got.err, dashboard.ErrSuperseded)
	assert.Equal(t, "London", f.dash.LastCity("client-1"), "stale completion must not overwrite the view")
}

func TestOrchestrator_StaleFailureIsDiscarded(t *testing.T) {
	f := newFixture()
	slow := f.weather.gate("Nowhere")
	f.weather.errs["Nowhere"] = weather.ErrCityNotFound

	first := make(chan error, 1)
	go func() {
		_, err := f.dash.Search(context.Background(), f.client, "Nowhere")
		first <- err
	}()

	require.Eventually(t, func() bool { return f.weather.searchCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err := f.dash.Search(context.Background(), f.client, "London")
	require.NoError(t, err)

	close(slow)
	assert.ErrorIs(t, <-first, dashboard.ErrSuperseded)
}

func TestOrchestrator_ClientsAreIndependent(t *testing.T) {
	f := newFixture()
	slow := f.weather.gate("Paris")

	other := dashboard.Client{ID: "client-2", Fallback: i18n.English}

	done := make(chan error, 1)
	go func() {
		_, err := f.dash.Search(context.Background(), other, "Paris")
		done <- err
	}()

	require.Eventually(t, func() bool { return f.weather.searchCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err := f.dash.Search(context.Background(), f.client, "London")
	require.NoError(t, err)

	close(slow)
	assert.NoError(t, <-done)
	assert.Equal(t, "Paris", f.dash.LastCity("client-2"))
	assert.Equal(t, "London", f.dash.LastCity("client-1"))
}

func TestOrchestrator_Locate(t *testing.T) {
	f := newFixture()

	result, err := f.dash.Locate(context.Background(), f.client, weather.Coordinates{Lat: 41.0, Lon: 29.0})
	require.NoError(t, err)
	assert.Equal(t, "Istanbul", result.City)
	assert.Equal(t, 1, f.weather.locates)
	assert.Equal(t, []string{"Istanbul"}, f.weather.searches)
}

func TestOrchestrator_LocateFailure(t *testing.T) {
	f := newFixture()
	f.weather.locErr = weather.ErrProviderUnavailable

	_, err := f.dash.Locate(context.Background(), f.client, weather.Coordinates{Lat: 41.0, Lon: 29.0})
	assert.ErrorIs(t, err, dashboard.ErrLocationUnavailable)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Zero(t, f.weather.searchCount())
}

func TestOrchestrator_ChangeLanguage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.dash.ChangeLanguage(ctx, f.client, i18n.Turkish, "London")
	require.NoError(t, err)
	require.NotNil(t, result.Dashboard)
	assert.Equal(t, i18n.Turkish, result.Settings.Language)
	assert.Equal(t, "Nem", result.Dashboard.Labels.Humidity)
	assert.Equal(t, []string{"tr"}, f.weather.langs)

	result, err = f.dash.ChangeLanguage(ctx, f.client, i18n.English, "London")
	require.NoError(t, err)
	assert.Equal(t, i18n.For(i18n.English), result.Dashboard.Labels, "no residual Turkish strings")
}

func TestOrchestrator_ChangeLanguageWithoutCity(t *testing.T) {
	f := newFixture()

	result, err := f.dash.ChangeLanguage(context.Background(), f.client, i18n.Turkish, " ")
	require.NoError(t, err)
	assert.Nil(t, result.Dashboard)
	assert.Equal(t, i18n.Turkish, result.Settings.Language)
	assert.Zero(t, f.weather.searchCount())

	stored, err := f.repo.Get(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, i18n.Turkish, stored.Language)
}

func TestOrchestrator_ChangeLanguageInvalid(t *testing.T) {
	f := newFixture()

	_, err := f.dash.ChangeLanguage(context.Background(), f.client, "de", "London")
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)
	assert.Zero(t, f.weather.searchCount())
}

func TestOrchestrator_ToggleThemeRebuildsChartWithoutFetch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	searched, err := f.dash.Search(ctx, f.client, "London")
	require.NoError(t, err)
	require.Equal(t, 1, f.weather.searchCount())

	toggled, err := f.dash.ToggleTheme(ctx, f.client)
	require.NoError(t, err)

	assert.Equal(t, 1, f.weather.searchCount(), "theme toggle must not fetch")
	assert.Equal(t, settings.ThemeDark, toggled.Settings.Theme)
	require.NotNil(t, toggled.Chart)
	assert.Equal(t, searched.Dashboard.Chart.Data, toggled.Chart.Data)
	assert.Equal(t, "#f5f5f5", toggled.Chart.Options.Plugins.Legend.Labels.Color)
}

func TestOrchestrator_ToggleThemeWithoutChart(t *testing.T) {
	f := newFixture()

	toggled, err := f.dash.ToggleTheme(context.Background(), f.client)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, toggled.Settings.Theme)
	assert.Nil(t, toggled.Chart)
}

func TestOrchestrator_Settings(t *testing.T) {
	f := newFixture()

	st := f.dash.Settings(context.Background(), dashboard.Client{ID: "fresh", Fallback: i18n.Turkish})
	assert.Equal(t, i18n.Turkish, st.Language)
	assert.Equal(t, settings.ThemeLight, st.Theme)
}

func TestOrchestrator_EvictsOldestClient(t *testing.T) {
	fw := newFakeWeather()
	svc := settings.NewService(settings.ServiceConfig{Repository: settings.NewInMemoryRepository(), Logger: zerolog.Nop()})
	dash := dashboard.New(dashboard.Config{Weather: fw, Settings: svc, Logger: zerolog.Nop(), MaxClients: 2})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := dash.Search(ctx, dashboard.Client{ID: id}, "London")
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, 2, dash.ClientCount())
	assert.Empty(t, dash.LastCity("a"), "oldest client was evicted")
}

func TestOrchestrator_InspectingUnknownClientKeepsRetainedChart(t *testing.T) {
	fw := newFakeWeather()
	svc := settings.NewService(settings.ServiceConfig{Repository: settings.NewInMemoryRepository(), Logger: zerolog.Nop()})
	dash := dashboard.New(dashboard.Config{Weather: fw, Settings: svc, Logger: zerolog.Nop(), MaxClients: 1})
	ctx := context.Background()
	client := dashboard.Client{ID: "a", Fallback: i18n.English}

	_, err := dash.Search(ctx, client, "London")
	require.NoError(t, err)

	assert.Empty(t, dash.LastCity("stranger"))
	assert.Equal(t, 1, dash.ClientCount())
	assert.Equal(t, "London", dash.LastCity("a"))

	result, err := dash.ToggleTheme(ctx, client)
	require.NoError(t, err)
	assert.NotNil(t, result.Chart, "chart must survive a lookup of another client")
}
