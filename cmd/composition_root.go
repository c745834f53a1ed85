package cmd

import (
	httpin "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/postgres"
	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
	"lastmile/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	locations  ports.LocationStore
	logger     *zap.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	locations ports.LocationStore,
	logger *zap.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		locations:  locations,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateSkipOrderCommandHandler() commands.SkipOrderCommandHandler {
	return commands.NewSkipOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f, c.cfg.DeliveryIncentive)
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateCreateSettlementCommandHandler() commands.CreateSettlementCommandHandler {
	return commands.NewCreateSettlementCommandHandler(c.settlementUoWFactory())
}

func (c *CompositionRoot) CreateConfirmPayableCommandHandler() commands.ConfirmPayableCommandHandler {
	return commands.NewConfirmPayableCommandHandler(c.settlementUoWFactory())
}

func (c *CompositionRoot) CreateReconcileSettlementCommandHandler() commands.ReconcileSettlementCommandHandler {
	return commands.NewReconcileSettlementCommandHandler(c.settlementUoWFactory())
}

func (c *CompositionRoot) CreateReconcileWalletCommandHandler() commands.ReconcileWalletCommandHandler {
	var f commands.WalletUoWFactory = FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileWalletCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeShiftCommandHandler() commands.ChangeShiftCommandHandler {
	var f commands.ShiftUoWFactory = FuncShiftUoWFactory(func() commands.ShiftUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeShiftCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.courierUoWFactory(), c.locations)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB, c.locations)
}

func (c *CompositionRoot) CreateGetOrderPaymentSummaryQueryHandler() queries.GetOrderPaymentSummaryQueryHandler {
	return queries.NewGetOrderPaymentSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDispatchCandidatesQueryHandler() queries.GetDispatchCandidatesQueryHandler {
	return queries.NewGetDispatchCandidatesQueryHandler(c.gormDB, c.locations, services.NewOrderDispatcher())
}

func (c *CompositionRoot) CreateGetWalletQueryHandler() queries.GetWalletQueryHandler {
	return queries.NewGetWalletQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPayableQRQueryHandler() queries.GetPayableQRQueryHandler {
	return queries.NewGetPayableQRQueryHandler(c.gormDB, queries.UPIPayee{
		VPA:      c.cfg.UPIVPA,
		Name:     c.cfg.UPIPayeeName,
		Currency: c.cfg.UPICurrency,
	})
}

func (c *CompositionRoot) CreateGetEarningsQueryHandler() *queries.GetEarningsQueryHandler {
	calculator := services.NewEarningsCalculator(c.cfg.DeliveryIncentive, c.cfg.EarningsLocation)
	return queries.NewGetEarningsQueryHandler(c.gormDB, calculator)
}

func (c *CompositionRoot) CreateGetDeductionsQueryHandler() queries.GetDeductionsQueryHandler {
	return queries.NewGetDeductionsQueryHandler(c.gormDB)
}

// HTTPHandlers wires every use case exposed by the REST surface.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateCourier: c.CreateCreateCourierCommandHandler(),
		CreateOrder:   c.CreateCreateOrderCommandHandler(),

		AcceptOrder:      c.CreateAcceptOrderCommandHandler(),
		AssignOrder:      c.CreateAssignOrderCommandHandler(),
		SkipOrder:        c.CreateSkipOrderCommandHandler(),
		AdvanceOrder:     c.CreateAdvanceOrderCommandHandler(),
		CompleteDelivery: c.CreateCompleteDeliveryCommandHandler(),
		RateDelivery:     c.CreateRateDeliveryCommandHandler(),

		CreateSettlement:    c.CreateCreateSettlementCommandHandler(),
		ConfirmPayable:      c.CreateConfirmPayableCommandHandler(),
		ReconcileSettlement: c.CreateReconcileSettlementCommandHandler(),
		ReconcileWallet:     c.CreateReconcileWalletCommandHandler(),

		ChangeShift:    c.CreateChangeShiftCommandHandler(),
		UpdateLocation: c.CreateUpdateCourierLocationCommandHandler(),

		GetOrderTracking:      c.CreateGetOrderTrackingQueryHandler(),
		GetOrderPayments:      c.CreateGetOrderPaymentSummaryQueryHandler(),
		GetDispatchCandidates: c.CreateGetDispatchCandidatesQueryHandler(),
		GetWallet:             c.CreateGetWalletQueryHandler(),
		GetPayableQR:          c.CreateGetPayableQRQueryHandler(),
		GetEarnings:           c.CreateGetEarningsQueryHandler(),
		GetDeductions:         c.CreateGetDeductionsQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRelayOutboxCommandHandler(),
		c.CreateReconcileWalletCommandHandler(),
		jobs.Schedules{
			OutboxRelay:     c.cfg.OutboxRelaySchedule,
			WalletReconcile: c.cfg.WalletReconcileSchedule,
		},
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.AssignmentUoWFactory {
	return FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) settlementUoWFactory() commands.SettlementUoWFactory {
	return FuncSettlementUoWFactory(func() commands.SettlementUoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}

type FuncWalletUoWFactory func() commands.WalletUoW

func (f FuncWalletUoWFactory) Create() commands.WalletUoW {
	return f()
}

type FuncShiftUoWFactory func() commands.ShiftUoW

func (f FuncShiftUoWFactory) Create() commands.ShiftUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
