package audit

import (
	"strings"
	"time"

	"github.com/temirov/depaudit/internal/transport"
)

const (
	configurationTokenKeyConstant                = "token"
	configurationOutputPathKeyConstant           = "output_path"
	configurationHostKeyConstant                 = "host"
	configurationPortKeyConstant                 = "port"
	configurationRootKeyConstant                 = "root"
	configurationEndpointPathKeyConstant         = "endpoint_path"
	configurationTimeoutKeyConstant              = "timeout"
	configurationSummaryKeyConstant              = "summary"
	configurationObjectStoreKeyConstant          = "object_store"
	configurationObjectStoreEndpointKeyConstant  = "endpoint"
	configurationObjectStoreAccessKeyKeyConstant = "access_key"
	configurationObjectStoreSecretKeyKeyConstant = "secret_key"
	configurationObjectStoreUseSSLKeyConstant    = "use_ssl"
	configurationKeySeparatorConstant            = "."
	defaultRootConstant                          = "."
)

// CommandConfiguration captures persistent settings for the report command.
type CommandConfiguration struct {
	Token        string                   `mapstructure:"token"`
	OutputPath   string                   `mapstructure:"output_path"`
	Host         string                   `mapstructure:"host"`
	Port         int                      `mapstructure:"port"`
	Root         string                   `mapstructure:"root"`
	EndpointPath string                   `mapstructure:"endpoint_path"`
	Timeout      time.Duration            `mapstructure:"timeout"`
	Summary      bool                     `mapstructure:"summary"`
	ObjectStore  ObjectStoreConfiguration `mapstructure:"object_store"`
}

// ObjectStoreConfiguration locates the S3-compatible store used for s3:// output paths.
type ObjectStoreConfiguration struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// DefaultCommandConfiguration returns baseline configuration values for the report command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Host:         transport.DefaultHostConstant,
		Port:         transport.DefaultPortConstant,
		Root:         defaultRootConstant,
		EndpointPath: transport.DefaultEndpointPathConstant,
		ObjectStore:  ObjectStoreConfiguration{UseSSL: true},
	}
}

// DefaultConfigurationValues flattens the defaults under rootKey for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	key := func(segments ...string) string {
		return strings.Join(append([]string{rootKey}, segments...), configurationKeySeparatorConstant)
	}
	return map[string]any{
		key(configurationTokenKeyConstant):                                                     defaults.Token,
		key(configurationOutputPathKeyConstant):                                                defaults.OutputPath,
		key(configurationHostKeyConstant):                                                      defaults.Host,
		key(configurationPortKeyConstant):                                                      defaults.Port,
		key(configurationRootKeyConstant):                                                      defaults.Root,
		key(configurationEndpointPathKeyConstant):                                              defaults.EndpointPath,
		key(configurationTimeoutKeyConstant):                                                   defaults.Timeout.String(),
		key(configurationSummaryKeyConstant):                                                   defaults.Summary,
		key(configurationObjectStoreKeyConstant, configurationObjectStoreEndpointKeyConstant):  defaults.ObjectStore.Endpoint,
		key(configurationObjectStoreKeyConstant, configurationObjectStoreAccessKeyKeyConstant): defaults.ObjectStore.AccessKey,
		key(configurationObjectStoreKeyConstant, configurationObjectStoreSecretKeyKeyConstant): defaults.ObjectStore.SecretKey,
		key(configurationObjectStoreKeyConstant, configurationObjectStoreUseSSLKeyConstant):    defaults.ObjectStore.UseSSL,
	}
}

// Sanitize trims whitespace and restores defaults for blank values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.Token = strings.TrimSpace(configuration.Token)
	sanitized.OutputPath = strings.TrimSpace(configuration.OutputPath)
	sanitized.Host = strings.TrimSpace(configuration.Host)
	sanitized.Root = strings.TrimSpace(configuration.Root)
	sanitized.EndpointPath = strings.TrimSpace(configuration.EndpointPath)
	sanitized.ObjectStore.Endpoint = strings.TrimSpace(configuration.ObjectStore.Endpoint)
	if len(sanitized.Host) == 0 {
		sanitized.Host = defaults.Host
	}
	if sanitized.Port == 0 {
		sanitized.Port = defaults.Port
	}
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaults.Root
	}
	if len(sanitized.EndpointPath) == 0 {
		sanitized.EndpointPath = defaults.EndpointPath
	}
	return sanitized
}

func (configuration CommandConfiguration) objectStoreSettings() transport.ObjectStoreSettings {
	return transport.ObjectStoreSettings{
		Endpoint:  configuration.ObjectStore.Endpoint,
		AccessKey: configuration.ObjectStore.AccessKey,
		SecretKey: configuration.ObjectStore.SecretKey,
		UseSSL:    configuration.ObjectStore.UseSSL,
	}
}
