package gifting

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mineworks/giftissue/modules/gifting/infrastructure/persistence"
	"github.com/mineworks/giftissue/modules/gifting/presentation/controllers"
	"github.com/mineworks/giftissue/modules/gifting/services"
	"github.com/mineworks/giftissue/pkg/configuration"
	"github.com/mineworks/giftissue/pkg/eventbus"
)

// Module bundles the gifting repositories, services and HTTP surface.
type Module struct {
	ImportService   *services.ImportService
	TemplateService *services.TemplateService
	Controller      *controllers.ImportController
}

func NewModule(conf *configuration.Configuration, bus eventbus.EventBus, log *logrus.Logger) *Module {
	batches := persistence.BatchConfig{
		LookupChunkSize:   conf.Import.LookupChunkSize,
		EmployeeBatchSize: conf.Import.EmployeeBatchSize,
		LinkBatchSize:     conf.Import.LinkBatchSize,
		BatchTimeout:      conf.Import.BatchTimeout,
	}

	importService := services.NewImportService(
		persistence.NewIssuingRepository(),
		persistence.NewGiftSlotRepository(),
		persistence.NewEmployeeRepository(batches),
		persistence.NewEntitlementRepository(batches),
		persistence.NewImportRunRepository(),
		bus,
		log,
		services.ImportOptions{
			PreviewRows:           conf.Import.PreviewRows,
			LinkExistingEmployees: conf.Import.LinkExistingEmployees,
		},
	)
	templateService := services.NewTemplateService()

	return &Module{
		ImportService:   importService,
		TemplateService: templateService,
		Controller:      controllers.NewImportController(importService, templateService, log, conf.MaxUploadSize),
	}
}

func (m *Module) Register(r *mux.Router) {
	m.Controller.Register(r)
}
