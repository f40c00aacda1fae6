package config

const (
	KeyGitHubToken     = "github_token"
	KeyGraphQLEndpoint = "github_graphql_url"
	KeyLogLevel        = "log_level"
	KeyCacheCapacity   = "cache_capacity"
	KeySearchResultTTL = "search_result_ttl"
	KeyHTTPAddr        = "http_addr"
)
