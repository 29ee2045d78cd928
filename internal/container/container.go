package container

import (
	"fmt"

	"cellxplore/adapters/api"
	"cellxplore/adapters/file"
	"cellxplore/app"
	"cellxplore/internal/config"
	"cellxplore/internal/datacache"
	"cellxplore/internal/selection"
	"cellxplore/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Source ports.RowSource
	Cache  *datacache.Cache
	Store  *selection.Store

	// Application service
	Explorer *app.ExplorerService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}
	if err := c.initSource(); err != nil {
		return nil, fmt.Errorf("failed to initialize row source: %w", err)
	}

	c.Cache = datacache.New(c.Source)
	c.Store = selection.NewStore()
	c.Explorer = app.NewExplorerService(c.Cache, c.Store, cfg.Fields)
	return c, nil
}

// initSource picks the dataset adapter. A remote data service wins over a
// local file when both are configured.
func (c *Container) initSource() error {
	data := c.Config.Data
	switch {
	case data.ServiceURL != "":
		c.Source = api.NewSource(api.SourceConfig{
			BaseURL:  data.ServiceURL,
			DataPath: data.DataPath,
			Timeout:  data.FetchTimeout,
		})
	case data.FilePath != "":
		c.Source = file.NewSource(data.FilePath)
	default:
		return fmt.Errorf("no data source configured")
	}
	return nil
}
