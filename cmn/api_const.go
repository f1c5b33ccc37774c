package cmn

// Inbound message actions (spec §6 table). The server package's dispatch
// table is keyed by these constants; an unrecognized action is the only way
// to reach the "unknown action" response.
const (
	ActAddResource            = "ADD_RESOURCE"
	ActAddDOMResources        = "ADD_DOM_RESOURCES"
	ActAddPredictedResources  = "ADD_PREDICTED_RESOURCES"
	ActGetResources           = "GET_RESOURCES"
	ActClearResources         = "CLEAR_RESOURCES"
	ActAnalyzeResource        = "ANALYZE_RESOURCE"
	ActPredictResources       = "PREDICT_RESOURCES"
	ActGetSimilarResources    = "GET_SIMILAR_RESOURCES"
	ActGetResourceStats       = "GET_RESOURCE_STATS"
	ActStreamingResource      = "STREAMING_RESOURCE"
	ActDownloadResource       = "DOWNLOAD_RESOURCE"
	ActBatchDownloadResources = "BATCH_DOWNLOAD_RESOURCES"
	ActGetDownloadQueue       = "GET_DOWNLOAD_QUEUE"
	ActGetDownloadHistory     = "GET_DOWNLOAD_HISTORY"
	ActCancelDownload         = "CANCEL_DOWNLOAD"
	ActPauseDownload          = "PAUSE_DOWNLOAD"
	ActResumeDownload         = "RESUME_DOWNLOAD"
	ActUpdateDownloadSettings = "UPDATE_DOWNLOAD_SETTINGS"
)

// Worker protocol actions (spec §6 "Worker protocol").
const (
	WorkAnalyze            = "analyze"
	WorkPredict            = "predict"
	WorkDeduplicate        = "deduplicate"
	WorkDetectResources    = "detectResources"
	WorkAnalysisComplete   = "analysisComplete"
	WorkPredictionComplete = "predictionComplete"
	WorkDedupComplete      = "deduplicationComplete"
	WorkDetectComplete     = "detectionComplete"
)

// Persisted state keys (spec §6). The values behind these keys are opaque
// JSON-like blobs as far as the KVStore is concerned; only this module's
// (de)serializers know their shape.
const (
	KeyOptions             = "resource_sniffer_options"
	KeyDownloadHistory     = "resource_sniffer_download_history"
	KeySiteConfigs         = "resource_sniffer_site_configs"
	KeyResourceCachePfx    = "resource_cache_" // + tab id
	KeyNetworkSpeedHistory = "networkSpeedHistory"
	KeyResumableDownloads  = "resumableDownloads"
)

// Resource type, source, and quality enums (spec §3 Resource Record).
type (
	ResourceType string
	SourceKind   string
	Quality      string
	StreamType   string
)

const (
	TypeImage    ResourceType = "image"
	TypeVideo    ResourceType = "video"
	TypeAudio    ResourceType = "audio"
	TypeDocument ResourceType = "document"
	TypeOther    ResourceType = "other"
)

const (
	SourceDOM       SourceKind = "dom"
	SourceCSS       SourceKind = "css"
	SourceShadowDOM SourceKind = "shadow-dom"
	SourceAttribute SourceKind = "attribute"
	SourceNested    SourceKind = "nested"
	SourceStreaming SourceKind = "streaming"
	SourcePredicted SourceKind = "predicted"
	SourceNetwork   SourceKind = "network"
)

// Quality bands, the canonical set stored on Resource.Quality (SPEC_FULL.md
// Open Question 1). The textual {high,medium,low,unknown} set used for some
// of the §4.2 scoring inputs is derived, never stored, via TextualQuality.
const (
	QualityHD      Quality = "HD"
	QualitySD      Quality = "SD"
	QualityLD      Quality = "LD"
	QualityUnknown Quality = "unknown"
)

const (
	StreamHLS    StreamType = "HLS"
	StreamDASH   StreamType = "DASH"
	StreamSmooth StreamType = "smooth"
	StreamNone   StreamType = "unknown"
)
