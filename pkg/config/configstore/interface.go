package configstore

// ConfigStore loads and saves a settings document.
type ConfigStore interface {
	Load(out any) error
	Save(data any) error
}
