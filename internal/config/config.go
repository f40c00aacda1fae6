package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyCacheCapacity, 100)
	viper.SetDefault(KeySearchResultTTL, "5m")
	viper.SetDefault(KeyHTTPAddr, ":8080")
}

func GitHubToken() string     { return viper.GetString(KeyGitHubToken) }
func GraphQLEndpoint() string { return viper.GetString(KeyGraphQLEndpoint) }
func LogLevel() string        { return viper.GetString(KeyLogLevel) }
func CacheCapacity() int      { return viper.GetInt(KeyCacheCapacity) }
func HTTPAddr() string        { return viper.GetString(KeyHTTPAddr) }

func SearchResultTTL() time.Duration {
	d := viper.GetDuration(KeySearchResultTTL)
	if d <= 0 {
		return 5 * time.Minute
	}
	return d
}
