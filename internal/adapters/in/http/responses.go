package http

import (
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/worklog"

	"github.com/shopspring/decimal"
)

// Money values are encoded as decimal strings.

type Point struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Amounts struct {
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Discount    decimal.Decimal `json:"discount"`
}

type Milestones struct {
	AcceptedAt          *time.Time `json:"acceptedAt"`
	PickedUpAt          *time.Time `json:"pickedUpAt"`
	NavigationStartedAt *time.Time `json:"navigationStartedAt"`
	ReachedAt           *time.Time `json:"reachedAt"`
	DeliveredAt         *time.Time `json:"deliveredAt"`
}

type Order struct {
	ID            string     `json:"id"`
	Number        string     `json:"number"`
	Status        string     `json:"status"`
	Stage         string     `json:"stage"`
	StageLabel    string     `json:"stageLabel"`
	CourierID     *string    `json:"courierId"`
	PaymentMethod string     `json:"paymentMethod"`
	PaymentStatus string     `json:"paymentStatus"`
	Amounts       Amounts    `json:"amounts"`
	Pickup        Point      `json:"pickup"`
	Drop          Point      `json:"drop"`
	Store         Contact    `json:"store"`
	Customer      Contact    `json:"customer"`
	Milestones    Milestones `json:"milestones"`
	DeliveryNotes string     `json:"deliveryNotes,omitempty"`
	Rating        *int       `json:"rating"`
	Version       int64      `json:"version"`
}

func toOrder(o *order.Order) Order {
	m := o.Milestones()
	return Order{
		ID:            o.ID().String(),
		Number:        o.Number(),
		Status:        o.Status(),
		Stage:         o.Stage().String(),
		StageLabel:    o.Stage().Label(),
		CourierID:     optionalID(o.Courier()),
		PaymentMethod: string(o.PaymentMethod()),
		PaymentStatus: string(o.PaymentStatus()),
		Amounts: Amounts{
			GrandTotal:  o.Amounts().GrandTotal(),
			ShippingFee: o.Amounts().ShippingFee(),
			Discount:    o.Amounts().Discount(),
		},
		Pickup:   toPoint(o.PickupPoint()),
		Drop:     toPoint(o.DropPoint()),
		Store:    Contact(o.Store()),
		Customer: Contact(o.Customer()),
		Milestones: Milestones{
			AcceptedAt:          m.AcceptedAt,
			PickedUpAt:          m.PickedUpAt,
			NavigationStartedAt: m.NavigationStartedAt,
			ReachedAt:           m.ReachedAt,
			DeliveredAt:         m.DeliveredAt,
		},
		DeliveryNotes: o.DeliveryNotes(),
		Rating:        o.Rating(),
		Version:       o.Version(),
	}
}

type Courier struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Availability    string          `json:"availability"`
	WalletBalance   decimal.Decimal `json:"walletBalance"`
	TotalDeliveries int             `json:"totalDeliveries"`
	Rating          float64         `json:"rating"`
}

func toCourier(c *courier.Courier) Courier {
	return Courier{
		ID:              c.ID().String(),
		Name:            c.Name(),
		Phone:           c.Phone(),
		Availability:    string(c.Availability()),
		WalletBalance:   c.WalletBalance(),
		TotalDeliveries: c.TotalDeliveries(),
		Rating:          c.Rating(),
	}
}

type CompleteDeliveryResponse struct {
	Order           Order           `json:"order"`
	PaymentID       *string         `json:"paymentId"`
	Earning         decimal.Decimal `json:"earning"`
	WalletBalance   decimal.Decimal `json:"walletBalance"`
	TotalDeliveries int             `json:"totalDeliveries"`
}

func toCompleteDelivery(r commands.CompleteDeliveryResult) CompleteDeliveryResponse {
	resp := CompleteDeliveryResponse{
		Order:           toOrder(r.Order),
		Earning:         r.Earning,
		WalletBalance:   r.WalletBalance,
		TotalDeliveries: r.TotalDeliveries,
	}
	if r.Payment != nil {
		id := r.Payment.ID().String()
		resp.PaymentID = &id
	}
	return resp
}

type CreateSettlementResponse struct {
	SettlementID  string          `json:"settlementId"`
	Amount        decimal.Decimal `json:"amount"`
	Count         int             `json:"count"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	OwesCompany   bool            `json:"owesCompany"`
}

type Settlement struct {
	ID          string          `json:"id"`
	CourierID   string          `json:"courierId"`
	PaymentIDs  []string        `json:"paymentIds"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	ReferenceID string          `json:"referenceId,omitempty"`
	SettledAt   *time.Time      `json:"settledAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toSettlement(s *ledger.Settlement) Settlement {
	ids := make([]string, 0, len(s.PaymentIDs()))
	for _, id := range s.PaymentIDs() {
		ids = append(ids, id.String())
	}
	return Settlement{
		ID:          s.ID().String(),
		CourierID:   s.CourierID().String(),
		PaymentIDs:  ids,
		Amount:      s.Amount(),
		Method:      string(s.Method()),
		Status:      string(s.Status()),
		ReferenceID: s.ReferenceID(),
		SettledAt:   s.SettledAt(),
		CreatedAt:   s.CreatedAt(),
	}
}

type ReconcileWalletResponse struct {
	CourierID string          `json:"courierId"`
	Cached    decimal.Decimal `json:"cached"`
	Derived   decimal.Decimal `json:"derived"`
	Drift     decimal.Decimal `json:"drift"`
	Repaired  bool            `json:"repaired"`
}

type WorkLog struct {
	ID              string     `json:"id"`
	CourierID       string     `json:"courierId"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	DurationSeconds *int64     `json:"durationSeconds"`
}

func toWorkLog(w *worklog.WorkLog) WorkLog {
	resp := WorkLog{
		ID:        w.ID().String(),
		CourierID: w.CourierID().String(),
		StartedAt: w.StartedAt(),
		EndedAt:   w.EndedAt(),
	}
	if !w.IsOpen() {
		seconds := int64(w.Duration().Seconds())
		resp.DurationSeconds = &seconds
	}
	return resp
}

type Location struct {
	CourierID string    `json:"courierId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TimelineStep struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Completed bool       `json:"completed"`
	At        *time.Time `json:"at"`
}

type TrackingAmounts struct {
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
}

type TrackingMap struct {
	Pickup Point `json:"pickup"`
	Drop   Point `json:"drop"`
	Rider  Point `json:"rider"`
}

type Tracking struct {
	OrderID       string          `json:"orderId"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	StageLabel    string          `json:"stageLabel"`
	ETAMinutes    *int            `json:"etaMinutes"`
	DistanceKm    *float64        `json:"distanceKm"`
	Amounts       TrackingAmounts `json:"amounts"`
	Map           TrackingMap     `json:"map"`
	Timeline      []TimelineStep  `json:"timeline"`
	Store         Contact         `json:"store"`
	Customer      Contact         `json:"customer"`
	PrimaryAction *string         `json:"primaryAction"`
	NavigationURL *string         `json:"navigationUrl"`
}

func toTracking(r queries.GetOrderTrackingQueryResponse) Tracking {
	steps := make([]TimelineStep, 0, len(r.Timeline))
	for _, s := range r.Timeline {
		steps = append(steps, TimelineStep(s))
	}

	var action *string
	if r.PrimaryAction != nil {
		a := string(*r.PrimaryAction)
		action = &a
	}

	return Tracking{
		OrderID:    r.OrderID.String(),
		Number:     r.Number,
		Status:     r.Status,
		StageLabel: r.StageLabel,
		ETAMinutes: r.ETAMinutes,
		DistanceKm: r.DistanceKm,
		Amounts:    TrackingAmounts(r.Amounts),
		Map: TrackingMap{
			Pickup: Point(r.Pickup),
			Drop:   Point(r.Drop),
			Rider:  Point(r.Rider),
		},
		Timeline:      steps,
		Store:         Contact(r.Store),
		Customer:      Contact(r.Customer),
		PrimaryAction: action,
		NavigationURL: r.NavigationURL,
	}
}

type Payment struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	CollectedAt time.Time       `json:"collectedAt"`
}

type PaymentSummary struct {
	OrderID       string          `json:"orderId"`
	Number        string          `json:"number"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Collected     decimal.Decimal `json:"collected"`
	Pending       decimal.Decimal `json:"pending"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	History       []Payment       `json:"history"`
}

func toPaymentSummary(r queries.GetOrderPaymentSummaryQueryResponse) PaymentSummary {
	history := make([]Payment, 0, len(r.History))
	for _, p := range r.History {
		history = append(history, Payment{
			ID:          p.ID.String(),
			Amount:      p.Amount,
			Method:      p.Method,
			Status:      p.Status,
			CollectedAt: p.CollectedAt,
		})
	}
	return PaymentSummary{
		OrderID:       r.OrderID.String(),
		Number:        r.Number,
		GrandTotal:    r.GrandTotal,
		Collected:     r.Collected,
		Pending:       r.Pending,
		PaymentMethod: r.PaymentMethod,
		PaymentStatus: r.PaymentStatus,
		History:       history,
	}
}

type Candidate struct {
	CourierID  string   `json:"courierId"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Rating     float64  `json:"rating"`
	Location   Point    `json:"location"`
	DistanceKm *float64 `json:"distanceKm"`
}

type Candidates struct {
	OrderID    string      `json:"orderId"`
	Candidates []Candidate `json:"candidates"`
}

func toCandidates(r queries.GetDispatchCandidatesQueryResponse) Candidates {
	list := make([]Candidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		list = append(list, Candidate{
			CourierID:  c.CourierID.String(),
			Name:       c.Name,
			Phone:      c.Phone,
			Rating:     c.Rating,
			Location:   Point(c.Location),
			DistanceKm: c.DistanceKm,
		})
	}
	return Candidates{OrderID: r.OrderID.String(), Candidates: list}
}

type WalletTransaction struct {
	ID           string          `json:"id"`
	Direction    string          `json:"direction"`
	Source       string          `json:"source"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Metadata     map[string]any  `json:"metadata"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Wallet struct {
	CourierID    string              `json:"courierId"`
	Balance      decimal.Decimal     `json:"balance"`
	OwesCompany  bool                `json:"owesCompany"`
	Transactions []WalletTransaction `json:"transactions"`
}

func toWallet(r queries.GetWalletQueryResponse) Wallet {
	txs := make([]WalletTransaction, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		txs = append(txs, WalletTransaction{
			ID:           t.ID.String(),
			Direction:    t.Direction,
			Source:       t.Source,
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Metadata:     t.Metadata,
			CreatedAt:    t.CreatedAt,
		})
	}
	return Wallet{
		CourierID:    r.CourierID.String(),
		Balance:      r.Balance,
		OwesCompany:  r.OwesCompany,
		Transactions: txs,
	}
}

type PayableQR struct {
	AmountToPay decimal.Decimal `json:"amountToPay"`
	UPIURI      string          `json:"upiUri"`
}

type EarningOrder struct {
	OrderID     string          `json:"orderId"`
	Number      string          `json:"number"`
	DeliveredAt time.Time       `json:"deliveredAt"`
	Earning     decimal.Decimal `json:"earning"`
}

type Earnings struct {
	Period          string          `json:"period"`
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeliveries int             `json:"totalDeliveries"`
	Orders          []EarningOrder  `json:"orders"`
}

func toEarnings(r queries.GetEarningsQueryResponse) Earnings {
	orders := make([]EarningOrder, 0, len(r.Orders))
	for _, o := range r.Orders {
		orders = append(orders, EarningOrder{
			OrderID:     o.OrderID.String(),
			Number:      o.Number,
			DeliveredAt: o.DeliveredAt,
			Earning:     o.Earning,
		})
	}
	return Earnings{
		Period:          string(r.Period),
		From:            r.From,
		To:              r.To,
		TotalEarnings:   r.TotalEarnings,
		TotalDeliveries: r.TotalDeliveries,
		Orders:          orders,
	}
}

type DeductionItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type Deduction struct {
	ID        string          `json:"id"`
	OrderID   *string         `json:"orderId"`
	Items     []DeductionItem `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Deductions struct {
	CourierID  string          `json:"courierId"`
	Total      decimal.Decimal `json:"total"`
	Deductions []Deduction     `json:"deductions"`
}

func toDeductions(r queries.GetDeductionsQueryResponse) Deductions {
	list := make([]Deduction, 0, len(r.Deductions))
	for _, d := range r.Deductions {
		items := make([]DeductionItem, 0, len(d.Items))
		for _, item := range d.Items {
			items = append(items, DeductionItem(item))
		}
		list = append(list, Deduction{
			ID:        d.ID.String(),
			OrderID:   optionalID(d.OrderID),
			Items:     items,
			Total:     d.Total,
			Status:    d.Status,
			CreatedAt: d.CreatedAt,
		})
	}
	return Deductions{CourierID: r.CourierID.String(), Total: r.Total, Deductions: list}
}

func toPoint(p *kernel.GeoPoint) Point {
	if p == nil {
		return Point{}
	}
	lat, lng := p.Lat(), p.Lng()
	return Point{Lat: &lat, Lng: &lng}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
