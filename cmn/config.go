package cmn

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/resourcesniffer/sniffercore/internal/xatomic"
)

// FilenameFormat enumerates the scheduler's pluggable filename templates
// (spec §4.5 Filename derivation).
type FilenameFormat string

const (
	FormatOriginal      FilenameFormat = "original"
	FormatTypeTimestamp FilenameFormat = "type-timestamp"
	FormatSiteTypeIndex FilenameFormat = "site-type-index"
	FormatCustom        FilenameFormat = "custom"
)

type SortOrder string

const (
	SortTimeDesc    SortOrder = "time-desc"
	SortSizeDesc    SortOrder = "size-desc"
	SortQualityDesc SortOrder = "quality-desc"
)

// DetectionToggles mirrors spec §6's enable_{x}_detection family.
type DetectionToggles struct {
	DOM       bool `json:"enable_dom_detection"`
	CSS       bool `json:"enable_css_detection"`
	ShadowDOM bool `json:"enable_shadow_dom_detection"`
	Attribute bool `json:"enable_attribute_detection"`
	Nested    bool `json:"enable_nested_detection"`
	Streaming bool `json:"enable_streaming_detection"`
	Predicted bool `json:"enable_predicted_detection"`
}

// Config is the single, atomically-swappable configuration value every
// component reads through the Global config owner (cf. the teacher's
// cmn.globalConfigOwner / cmn.GCO). Every field in spec §6's Configuration
// schema is represented explicitly; jsoniter's strict unmarshal rejects
// unknown keys (SPEC_FULL.md §10 Configuration) rather than silently
// merging them into runtime state.
type Config struct {
	MaxConcurrentDownloads int              `json:"max_concurrent_downloads"`
	DownloadSpeedLimitKBs  int              `json:"download_speed_limit_kbs"`
	DefaultPath            string           `json:"default_path"`
	FilenameFormat         FilenameFormat   `json:"filename_format"`
	CustomFilenameTemplate string           `json:"custom_filename_template"`
	CategorizeByWebsite    bool             `json:"categorize_by_website"`
	CategorizeByType       bool             `json:"categorize_by_type"`
	DefaultSort            SortOrder        `json:"default_sort"`
	Detection              DetectionToggles `json:"detection"`
	MinImageSizeKB          int  `json:"min_image_size_kb"`
	MinVideoSizeKB          int  `json:"min_video_size_kb"`
	AutoDetectOnPageLoad    bool `json:"auto_detect_on_page_load"`
	ShowNotifications       bool `json:"show_notifications"`
	EnableContextMenu       bool `json:"enable_context_menu"`
	EnableKeyboardShortcuts bool `json:"enable_keyboard_shortcuts"`

	// FingerprintCacheTTL and resumable-store cap are implementer defaults
	// named in spec §3/§4.5 rather than part of the inbound schema, kept
	// here because they're still config, just not wire-settable.
	FingerprintCacheTTL time.Duration `json:"-"`
	ResumableStoreCap   int           `json:"-"`
}

// Validate implements cmn.Validator, matching the teacher's PropsValidator
// pattern of a method the owner calls on every update before committing it.
func (c *Config) Validate() error {
	if c.MaxConcurrentDownloads < 1 || c.MaxConcurrentDownloads > 10 {
		return errors.Errorf("max_concurrent_downloads must be in [1,10], got %d", c.MaxConcurrentDownloads)
	}
	if c.DownloadSpeedLimitKBs < 0 {
		return errors.Errorf("download_speed_limit_kbs must be >= 0, got %d", c.DownloadSpeedLimitKBs)
	}
	switch c.FilenameFormat {
	case FormatOriginal, FormatTypeTimestamp, FormatSiteTypeIndex, FormatCustom, "":
	default:
		return errors.Errorf("unrecognized filename_format %q", c.FilenameFormat)
	}
	if c.FilenameFormat == FormatCustom && c.CustomFilenameTemplate == "" {
		return errors.New("custom filename_format requires custom_filename_template")
	}
	return nil
}

// DefaultConfig returns the spec §6 defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrentDownloads: 2,
		DownloadSpeedLimitKBs:  0,
		DefaultPath:            "downloads/resource-sniffer",
		FilenameFormat:         FormatOriginal,
		DefaultSort:            SortTimeDesc,
		Detection: DetectionToggles{
			DOM: true, CSS: true, ShadowDOM: true, Attribute: true,
			Nested: true, Streaming: true, Predicted: true,
		},
		AutoDetectOnPageLoad:    true,
		ShowNotifications:       true,
		EnableContextMenu:       true,
		EnableKeyboardShortcuts: true,
		FingerprintCacheTTL:     time.Hour,
		ResumableStoreCap:       100,
	}
}

// GlobalConfigOwner guards config swaps behind a mutex for writers while
// giving readers a lock-free snapshot via an atomic pointer, exactly the
// split the teacher's globalConfigOwner makes between `mtx` (serializes
// BeginUpdate/CommitUpdate) and `c` (an atomic.Pointer readers load).
type GlobalConfigOwner struct {
	mtx sync.Mutex
	c   xatomic.Pointer[Config]
}

// GCO is the process-wide config owner, mirroring the teacher's package
// level `var GCO = newGlobalConfigOwner()` singleton. Design Note "Global
// singletons" asks that singletons become explicit constructor-injected
// dependencies; GCO is the one exception spec.md itself treats as ambient
// (configuration, unlike the logging/fingerprint/monitoring services named
// in the Design Note, has no per-tab or per-request scope to inject against).
var GCO = NewGlobalConfigOwner(DefaultConfig())

func NewGlobalConfigOwner(initial *Config) *GlobalConfigOwner {
	o := &GlobalConfigOwner{}
	o.c.Store(initial)
	return o
}

// Get returns the current config snapshot. Safe for concurrent use from any
// goroutine without taking mtx (spec §5: config reads are non-suspending and
// must never block behind a writer).
func (o *GlobalConfigOwner) Get() *Config { return o.c.Load() }

// Update validates and swaps in a new config, returning the rejected error
// without mutating state if validation fails.
func (o *GlobalConfigOwner) Update(next *Config) error {
	if err := next.Validate(); err != nil {
		return errors.Wrap(err, "reject config update")
	}
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.c.Store(next)
	return nil
}

// MarshalConfig/UnmarshalConfig use jsoniter for parity with the teacher's
// hot-path JSON handling and to reject unknown keys via a disallow-unknown
// config, matching SPEC_FULL.md's strict-decode requirement.
var strictJSON = jsoniter.Config{DisallowUnknownFields: true}.Froze()

func UnmarshalConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := strictJSON.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}

func MarshalConfig(c *Config) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(c)
}
