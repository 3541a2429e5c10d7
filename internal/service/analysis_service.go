package service

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/analyze"
	"github.com/awlens/awlens/internal/errs"
	"github.com/awlens/awlens/internal/export"
	"github.com/awlens/awlens/internal/models"
	"github.com/awlens/awlens/internal/report"
	"github.com/awlens/awlens/internal/store"
	"github.com/awlens/awlens/internal/userconfig"
)

// Options configures analysis defaults. Zero values fall back to the
// built-in defaults.
type Options struct {
	MergeGap     time.Duration
	FocusMin     time.Duration
	FocusGap     time.Duration
	TopN         int
	WeekStart    time.Weekday
	Location     *time.Location
	SampleLimit  int
}

// AnalysisService is the single entry point the CLI talks to: one read
// pass over the event store per invocation, results out, nothing written
// back to the store.
type AnalysisService struct {
	store      *store.Store
	storeErr   error
	userCfg    *userconfig.Store
	normalizer *analyze.Normalizer
	opts       Options
	logger     *zap.Logger
}

// NewAnalysisService creates the service. st may be nil with storeErr set:
// configuration-only operations still work when the tracker has never run,
// and event operations surface storeErr.
func NewAnalysisService(st *store.Store, storeErr error, userCfg *userconfig.Store, opts Options, logger *zap.Logger) *AnalysisService {
	if opts.MergeGap <= 0 {
		opts.MergeGap = 2 * time.Second
	}
	if opts.FocusMin <= 0 {
		opts.FocusMin = 30 * time.Minute
	}
	if opts.FocusGap <= 0 {
		opts.FocusGap = 2 * time.Minute
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.SampleLimit <= 0 {
		opts.SampleLimit = 5
	}

	return &AnalysisService{
		store:      st,
		storeErr:   storeErr,
		userCfg:    userCfg,
		normalizer: analyze.NewNormalizer(opts.MergeGap, logger.Named("normalizer")),
		opts:       opts,
		logger:     logger,
	}
}

// UserConfig exposes the configuration store for define/tag/delete
// operations.
func (s *AnalysisService) UserConfig() *userconfig.Store {
	return s.userCfg
}

// eventStore returns the event store, or the open error captured at
// startup when the store is unavailable.
func (s *AnalysisService) eventStore() (*store.Store, error) {
	if s.store == nil {
		return nil, s.storeErr
	}
	return s.store, nil
}

// Buckets lists all buckets in the event store.
func (s *AnalysisService) Buckets() ([]models.Bucket, error) {
	st, err := s.eventStore()
	if err != nil {
		return nil, err
	}
	return st.ListBuckets()
}

// BucketInfo summarizes one bucket.
func (s *AnalysisService) BucketInfo(bucketID string) (*models.BucketInfo, error) {
	st, err := s.eventStore()
	if err != nil {
		return nil, err
	}
	return st.GetBucketInfo(bucketID, s.opts.SampleLimit)
}

// Events returns raw events for one bucket.
func (s *AnalysisService) Events(bucketID string, start, end time.Time, limit int) ([]models.Event, error) {
	st, err := s.eventStore()
	if err != nil {
		return nil, err
	}
	return st.GetEvents(bucketID, start, end, limit)
}

// RawQuery runs an ad-hoc read-only query against the event store.
func (s *AnalysisService) RawQuery(query string) (*store.RawResult, error) {
	st, err := s.eventStore()
	if err != nil {
		return nil, err
	}
	return st.RawQuery(query)
}

func validateRange(start, end time.Time) error {
	if end.Before(start) {
		return errs.Validation("end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// loadIntervals reads window and AFK events for the range and normalizes
// them. With no host filter, all hosts are merged and the returned host
// list names what went in; with a filter, only that host's buckets count.
func (s *AnalysisService) loadIntervals(start, end time.Time, host string) (analyze.Normalized, []string, error) {
	if err := validateRange(start, end); err != nil {
		return analyze.Normalized{}, nil, err
	}

	st, err := s.eventStore()
	if err != nil {
		return analyze.Normalized{}, nil, err
	}
	buckets, err := st.ListBuckets()
	if err != nil {
		return analyze.Normalized{}, nil, err
	}

	var events, afkEvents []models.Event
	hostSet := make(map[string]bool)
	for _, b := range buckets {
		if host != "" && b.Hostname != host {
			continue
		}
		switch b.Type {
		case models.BucketTypeWindow:
			evs, err := st.GetEvents(b.ID, start, end, 0)
			if err != nil {
				return analyze.Normalized{}, nil, err
			}
			events = append(events, evs...)
			hostSet[b.Hostname] = true
		case models.BucketTypeAFK:
			evs, err := st.GetEvents(b.ID, start, end, 0)
			if err != nil {
				return analyze.Normalized{}, nil, err
			}
			afkEvents = append(afkEvents, evs...)
		}
	}

	if host != "" && len(hostSet) == 0 {
		return analyze.Normalized{}, nil, errs.NotFound("no window bucket for host %q", host)
	}

	hosts := make([]string, 0, len(hostSet))
	for h := range hostSet {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)

	// Events overlapping the range boundary come back whole; only their
	// in-range portion may count.
	events = analyze.ClipEvents(events, start, end)
	afkEvents = analyze.ClipEvents(afkEvents, start, end)

	normalized := s.normalizer.Normalize(events, afkEvents)
	s.logger.Debug("Loaded intervals",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Strings("hosts", hosts),
		zap.Int("window_events", len(events)),
		zap.Int("afk_events", len(afkEvents)),
		zap.Int("intervals", len(normalized.Intervals)),
	)
	return normalized, hosts, nil
}

// DayReport builds the report for the local calendar day containing date.
func (s *AnalysisService) DayReport(date time.Time, host string) (*report.DayReport, error) {
	loc := s.opts.Location
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	normalized, hosts, err := s.loadIntervals(start, end, host)
	if err != nil {
		return nil, err
	}

	apps := analyze.Aggregate(normalized.Intervals, analyze.GroupByApp, loc)
	titles := analyze.Aggregate(normalized.Intervals, analyze.GroupByTitle, loc)
	sessions := analyze.DetectSessions(normalized.Intervals, s.opts.FocusMin, s.opts.FocusGap)

	return &report.DayReport{
		Date:          start.Format("2006-01-02"),
		Hosts:         hosts,
		AFKData:       normalized.AFKData,
		Warning:       s.userCfg.Warning(),
		ActiveSeconds: report.Seconds(apps.Total),
		Active:        report.FormatDuration(apps.Total),
		TopApps:       report.Entries(apps.TopN(s.opts.TopN)),
		TopTitles:     report.Entries(titles.TopN(s.opts.TopN)),
		FocusSessions: report.Sessions(sessions),
	}, nil
}

// WeekReport builds the report for the week containing date, starting on
// the configured week-start day.
func (s *AnalysisService) WeekReport(date time.Time, host string) (*report.WeekReport, error) {
	loc := s.opts.Location
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	for start.Weekday() != s.opts.WeekStart {
		start = start.AddDate(0, 0, -1)
	}
	end := start.AddDate(0, 0, 7)

	normalized, hosts, err := s.loadIntervals(start, end, host)
	if err != nil {
		return nil, err
	}

	days := analyze.Aggregate(normalized.Intervals, analyze.GroupByDay, loc)
	apps := analyze.Aggregate(normalized.Intervals, analyze.GroupByApp, loc)

	r := &report.WeekReport{
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.AddDate(0, 0, -1).Format("2006-01-02"),
		Hosts:         hosts,
		AFKData:       normalized.AFKData,
		Warning:       s.userCfg.Warning(),
		ActiveSeconds: report.Seconds(days.Total),
		Active:        report.FormatDuration(days.Total),
		TopApps:       report.Entries(apps.TopN(s.opts.TopN)),
	}

	byDay := make(map[string]time.Duration, len(days.Totals))
	for _, g := range days.Totals {
		byDay[g.Key] = g.Duration
	}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		r.Days = append(r.Days, report.DayTotal{
			Date:     day,
			Seconds:  report.Seconds(byDay[day]),
			Duration: report.FormatDuration(byDay[day]),
		})
	}

	return r, nil
}

// AppsReport breaks down active time per app over an arbitrary range.
func (s *AnalysisService) AppsReport(start, end time.Time, host string) (*report.AppsReport, error) {
	normalized, hosts, err := s.loadIntervals(start, end, host)
	if err != nil {
		return nil, err
	}

	apps := analyze.Aggregate(normalized.Intervals, analyze.GroupByApp, s.opts.Location)
	return &report.AppsReport{
		Start:         report.ISO(start),
		End:           report.ISO(end),
		Hosts:         hosts,
		AFKData:       normalized.AFKData,
		Warning:       s.userCfg.Warning(),
		ActiveSeconds: report.Seconds(apps.Total),
		Apps:          report.Entries(apps.TopN(0)),
	}, nil
}

// FocusReport detects focus sessions over a range. minMinutes <= 0 uses
// the configured default.
func (s *AnalysisService) FocusReport(start, end time.Time, host string, minMinutes int) (*report.FocusReport, error) {
	normalized, hosts, err := s.loadIntervals(start, end, host)
	if err != nil {
		return nil, err
	}

	minDur := s.opts.FocusMin
	if minMinutes > 0 {
		minDur = time.Duration(minMinutes) * time.Minute
	}
	sessions := analyze.DetectSessions(normalized.Intervals, minDur, s.opts.FocusGap)

	return &report.FocusReport{
		Start:      report.ISO(start),
		End:        report.ISO(end),
		Hosts:      hosts,
		AFKData:    normalized.AFKData,
		Warning:    s.userCfg.Warning(),
		MinMinutes: int(minDur.Minutes()),
		Sessions:   report.Sessions(sessions),
	}, nil
}

// ProjectTime attributes time to a project over a range: rule-matched
// active intervals plus manual tags, summed independently.
func (s *AnalysisService) ProjectTime(name string, start, end time.Time, host string) (*report.ProjectReport, error) {
	project, err := s.userCfg.GetProject(name)
	if err != nil {
		return nil, err
	}

	normalized, _, err := s.loadIntervals(start, end, host)
	if err != nil {
		return nil, err
	}

	tags := s.userCfg.TagsForProject(name, start, end)
	pt := analyze.GetProjectTime(*project, normalized.Intervals, tags, start, end)

	return &report.ProjectReport{
		Project:          pt.Project,
		Start:            report.ISO(start),
		End:              report.ISO(end),
		Warning:          s.userCfg.Warning(),
		RuleBasedSeconds: report.Seconds(pt.RuleBased),
		ManualSeconds:    report.Seconds(pt.Manual),
		TotalSeconds:     report.Seconds(pt.Total),
		Note:             report.OverlapNote,
	}, nil
}

// ProductivityReport classifies active time into productive, neutral, and
// distracting over a range.
func (s *AnalysisService) ProductivityReport(start, end time.Time, host string) (*report.ProductivityReport, error) {
	normalized, hosts, err := s.loadIntervals(start, end, host)
	if err != nil {
		return nil, err
	}

	classifier := analyze.NewClassifier(s.userCfg.Categories())
	breakdown := classifier.Breakdown(normalized.Intervals)

	return &report.ProductivityReport{
		Start:              report.ISO(start),
		End:                report.ISO(end),
		Hosts:              hosts,
		AFKData:            normalized.AFKData,
		Warning:            s.userCfg.Warning(),
		ProductiveSeconds:  report.Seconds(breakdown.Productive),
		NeutralSeconds:     report.Seconds(breakdown.Neutral),
		DistractingSeconds: report.Seconds(breakdown.Distracting),
		ByApp:              report.CategoryEntries(breakdown.ByApp),
	}, nil
}

// Export writes raw events for a range and bucket selection to a JSON or
// CSV file. Empty bucketIDs means every bucket in the store.
func (s *AnalysisService) Export(bucketIDs []string, start, end time.Time, format, path string) (int, error) {
	if err := validateRange(start, end); err != nil {
		return 0, err
	}

	st, err := s.eventStore()
	if err != nil {
		return 0, err
	}

	if len(bucketIDs) == 0 {
		buckets, err := st.ListBuckets()
		if err != nil {
			return 0, err
		}
		for _, b := range buckets {
			bucketIDs = append(bucketIDs, b.ID)
		}
	}

	var events []models.Event
	for _, id := range bucketIDs {
		evs, err := st.GetEvents(id, start, end, 0)
		if err != nil {
			return 0, err
		}
		events = append(events, evs...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	switch strings.ToLower(format) {
	case "json":
		err = export.EventsToJSON(events, path)
	case "csv":
		err = export.EventsToCSV(events, path)
	default:
		return 0, errs.Validation("unknown export format %q (want json or csv)", format)
	}
	if err != nil {
		return 0, err
	}

	s.logger.Info("Events exported",
		zap.Int("count", len(events)),
		zap.String("format", format),
		zap.String("path", path),
	)
	return len(events), nil
}
