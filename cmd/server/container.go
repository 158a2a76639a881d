// cmd/server/container.go
//
// Composition root. Builds the AWS clients once at startup and wires the
// pipeline components together; nothing else in the tree constructs
// infrastructure.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/iQuantC/docsight/pkg/config"
	"github.com/iQuantC/docsight/pkg/document/docsrv"
	"github.com/iQuantC/docsight/pkg/document/docstore"
	"github.com/iQuantC/docsight/pkg/document/extract"
	"github.com/iQuantC/docsight/pkg/document/overlay"
	"github.com/iQuantC/docsight/pkg/document/qa"
	"github.com/iQuantC/docsight/pkg/logx"
)

// Container holds the process-wide clients and composed services.
type Container struct {
	Config *config.Config

	// Infrastructure (read-only after init, reused across requests)
	S3Client *s3.Client

	// Pipeline
	Extractor *extract.Extractor
	Answerer  *qa.Answerer
	Store     *docstore.Store

	DocumentService  *docsrv.Service
	DocumentHandlers *docsrv.Handlers
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("Initializing application container...")

	c := &Container{Config: cfg}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logx.Fatalf("Unable to load AWS SDK config: %v", err)
	}
	logx.Infof("AWS clients configured (region: %s)", cfg.AWS.Region)

	c.S3Client = s3.NewFromConfig(awsCfg)
	c.Extractor = extract.NewExtractor(awsCfg)
	c.Answerer = qa.NewAnswerer(awsCfg,
		qa.WithModel(cfg.QA.ModelID),
		qa.WithMaxTokens(cfg.QA.MaxTokens),
		qa.WithTemperature(cfg.QA.Temperature),
		qa.WithTopP(cfg.QA.TopP),
	)
	c.Store = docstore.NewStore(cfg.Session.TTL)

	c.DocumentService = docsrv.NewService(c.Extractor, c.Answerer, c.Store,
		docsrv.WithTimeout(cfg.AWS.ServiceTimeout),
		docsrv.WithOverlayOptions(
			overlay.WithColor(overlay.ParseColor(cfg.Overlay.Color)),
			overlay.WithStrokeWidth(cfg.Overlay.StrokeWidth),
		),
	)
	c.DocumentHandlers = docsrv.NewHandlers(c.DocumentService, c.S3Client)

	logx.Infof("Question answering model: %s", cfg.QA.ModelID)
	logx.Info("Application container initialized")
	return c
}

// StartBackgroundServices starts the session janitor.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	c.Store.StartJanitor(ctx, c.Config.Session.CleanupInterval)
	logx.Infof("Session janitor running (ttl: %s)", c.Config.Session.TTL)
}
