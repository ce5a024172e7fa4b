package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/diewo77/blachy/internal/models"
	"github.com/diewo77/blachy/internal/pending"
	"github.com/diewo77/blachy/internal/services"
	"github.com/diewo77/blachy/session"
	"github.com/diewo77/blachy/validation"
	"github.com/diewo77/blachy/view"
	"go.uber.org/zap"
)

// OrderHandler drives the offer, draft and order pages.
type OrderHandler struct {
	inv        *services.InventoryService
	orders     *services.OrderService
	export     *services.ExportService
	pending    pending.Store
	defaultQty int
	log        *zap.Logger
}

func NewOrderHandler(inv *services.InventoryService, orders *services.OrderService, export *services.ExportService, ps pending.Store, defaultQty int, log *zap.Logger) *OrderHandler {
	return &OrderHandler{inv: inv, orders: orders, export: export, pending: ps, defaultQty: defaultQty, log: log}
}

// overridesMarker is a hidden field sent by every form that shows the
// override checkboxes. With it present, no "override" value means none are
// checked.
const overridesMarker = "overrides_submitted"

// formOverrides reads the "override" checkboxes. Values that are not ids
// are ignored.
func formOverrides(r *http.Request) []uint {
	var ids []uint
	seen := make(map[uint]bool)
	for _, raw := range r.Form["override"] {
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || n == 0 || seen[uint(n)] {
			continue
		}
		seen[uint(n)] = true
		ids = append(ids, uint(n))
	}
	return ids
}

// formQuantities collects qty_<sheetID> fields.
func formQuantities(r *http.Request) map[uint]string {
	out := make(map[uint]string)
	for key, vals := range r.Form {
		rest, ok := strings.CutPrefix(key, "qty_")
		if !ok || len(vals) == 0 {
			continue
		}
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			continue
		}
		out[uint(id)] = vals[0]
	}
	return out
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (h *OrderHandler) selection(r *http.Request) (string, pending.Selection) {
	sid, _ := session.IDFromContext(r.Context())
	sel, err := h.pending.Get(r.Context(), sid)
	if err != nil {
		h.log.Warn("pending selection unavailable", zap.Error(err))
	}
	return sid, sel
}

func (h *OrderHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, lines []services.OfferLine, overrides map[uint]bool, form map[uint]string, v validation.Violations) {
	demand, err := h.inv.Demand(r.Context())
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if lines == nil {
		lines = services.SelectOffer(demand, overrides, h.defaultQty)
	}
	view.RenderStatus(w, r, status, "orders/form.html", map[string]any{
		"Demand":    demand,
		"Lines":     lines,
		"Overrides": overrides,
		"Form":      form,
		"Errors":    v,
	})
}

// Form shows the offer candidates with editable quantities. The last
// draft of the session, if any, pre-fills the quantities.
func (h *OrderHandler) Form(w http.ResponseWriter, r *http.Request) {
	_, sel := h.selection(r)
	demand, err := h.inv.Demand(r.Context())
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	overrides := sel.OverrideSet()
	lines := services.WithQuantities(services.SelectOffer(demand, overrides, h.defaultQty), sel.DraftQuantities())
	h.renderForm(w, r, http.StatusOK, lines, overrides, nil, nil)
}

// Override stores the sheets the user wants in the offer regardless of shortage.
func (h *OrderHandler) Override(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sid, sel := h.selection(r)
	sel.Overrides = formOverrides(r)
	sel.Draft = nil
	if err := h.pending.Put(r.Context(), sid, sel); err != nil {
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "overrides_saved")
	redirect(w, r, "/orders")
}

// offerFromForm builds the offer lines from the submitted overrides (or the
// stored ones when the form carries no override field) and explicit quantities.
func (h *OrderHandler) offerFromForm(r *http.Request, sel pending.Selection) ([]services.OfferLine, map[uint]bool, validation.Violations, error) {
	overrides := sel.OverrideSet()
	if _, submitted := r.Form["override"]; submitted || r.Form.Has(overridesMarker) {
		overrides = toSet(formOverrides(r))
	}
	demand, err := h.inv.Demand(r.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	candidates := services.SelectOffer(demand, overrides, h.defaultQty)
	lines, v := services.ApplyQuantities(candidates, formQuantities(r))
	return lines, overrides, v, nil
}

// Draft turns the submitted quantities into the session's pending order
// and shows it for confirmation.
func (h *OrderHandler) Draft(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sid, sel := h.selection(r)
	lines, overrides, v, err := h.offerFromForm(r, sel)
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, nil, overrides, formQuantities(r), v)
		return
	}
	if len(lines) == 0 {
		session.Flash(w, r, "offer_empty")
		redirect(w, r, "/orders")
		return
	}

	sel.Overrides = make([]uint, 0, len(overrides))
	for id := range overrides {
		sel.Overrides = append(sel.Overrides, id)
	}
	sel.Draft = make([]pending.Line, 0, len(lines))
	for _, l := range lines {
		sel.Draft = append(sel.Draft, pending.Line{SheetID: l.SheetID, Quantity: l.Quantity})
	}
	if err := h.pending.Put(r.Context(), sid, sel); err != nil {
		serverError(w, r, h.log, err)
		return
	}
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	view.Render(w, r, "orders/confirm.html", map[string]any{
		"Lines": lines,
		"Total": total,
	})
}

// GenerateTxt downloads the ad-hoc offer as a fixed-width text report.
func (h *OrderHandler) GenerateTxt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	_, sel := h.selection(r)
	lines, overrides, v, err := h.offerFromForm(r, sel)
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, nil, overrides, formQuantities(r), v)
		return
	}
	if len(lines) == 0 {
		session.Flash(w, r, "offer_empty")
		redirect(w, r, "/")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.OfferReportName+`"`)
	if err := services.WriteReport(w, services.OfferReportTitle, services.OfferReportRows(lines)); err != nil {
		h.log.Warn("offer report interrupted", zap.Error(err))
	}
}

// Confirm persists the session's draft as an order.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sid, sel := h.selection(r)
	lines := make([]services.OrderLine, 0, len(sel.Draft))
	for _, l := range sel.Draft {
		lines = append(lines, services.OrderLine{SheetID: l.SheetID, Quantity: l.Quantity})
	}
	order, err := h.orders.Confirm(r.Context(), lines)
	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		session.Flash(w, r, "order_empty")
		redirect(w, r, "/orders")
		return
	case errors.Is(err, services.ErrSheetNotFound):
		if err := h.pending.Clear(r.Context(), sid); err != nil {
			h.log.Warn("pending selection not cleared", zap.Error(err))
		}
		session.Flash(w, r, "sheet_missing")
		redirect(w, r, "/orders")
		return
	case err != nil:
		serverError(w, r, h.log, err)
		return
	}
	if err := h.pending.Clear(r.Context(), sid); err != nil {
		h.log.Warn("pending selection not cleared", zap.Error(err))
	}
	session.Flash(w, r, "order_confirmed")
	redirect(w, r, fmt.Sprintf("/order_details/%d", order.ID))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	view.Render(w, r, "orders/list.html", map[string]any{"Orders": orders})
}

func (h *OrderHandler) load(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	order, err := h.orders.Get(r.Context(), id)
	if errors.Is(err, services.ErrOrderNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		serverError(w, r, h.log, err)
		return nil, false
	}
	return order, true
}

func (h *OrderHandler) Details(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "orders/details.html", map[string]any{
		"Order": order,
		"Title": services.OrderReportTitle(order),
	})
}

// Export streams the zip bundle of an order and removes it afterwards.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r)
	if !ok {
		return
	}
	zipPath, err := h.export.BundleOrder(r.Context(), order)
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	defer os.Remove(zipPath)

	f, err := os.Open(zipPath)
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="zamowienie_%d.zip"`, order.ID))
	http.ServeContent(w, r, "", st.ModTime(), f)
}

func (h *OrderHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r)
	if !ok {
		return
	}
	buf, err := services.WriteSpreadsheet(services.OrderReportTitle(order), services.OrderReportRows(order))
	if err != nil {
		serverError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="zamowienie_%d.xlsx"`, order.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "order_deleted")
	redirect(w, r, "/orders_list")
}

func (h *OrderHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	orderID, err := h.orders.DeleteItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		serverError(w, r, h.log, err)
		return
	}
	session.Flash(w, r, "order_item_deleted")
	redirect(w, r, fmt.Sprintf("/order_details/%d", orderID))
}
