package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultSlotPrice is the flat price of one hour at the turf.
const DefaultSlotPrice = 900

// SlotStatus is the state of one slot as shown to the user.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotSelected  SlotStatus = "selected"
	SlotUnknown   SlotStatus = "unknown" // availability could not be fetched
)

// SlotAvailability is one item of an availability response.
type SlotAvailability struct {
	Label  string     `json:"label"`
	Status SlotStatus `json:"status"`
}

// AvailabilitySource reports which slots of a day are already taken.
type AvailabilitySource interface {
	FetchAvailability(ctx context.Context, date time.Time) ([]SlotAvailability, error)
}

// SlotView is the projection of catalog, availability and selection for one slot.
type SlotView struct {
	Descriptor TimeSlotDescriptor
	Price      int
	Status     SlotStatus
}

// SelectionEntry is a slot the user has tentatively picked.
type SelectionEntry struct {
	Date         time.Time `json:"date"`
	Hour         int       `json:"hour"`
	SlotLabel    string    `json:"slot_label"`
	DisplayRange string    `json:"display_range"`
	Price        int       `json:"price"`
}

type selectionKey struct {
	date  string
	label string
}

func keyOf(date time.Time, label string) selectionKey {
	return selectionKey{date: date.Format(time.DateOnly), label: label}
}

// FetchStatus tracks the availability request for the active date.
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchLoading
	FetchLoaded
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchLoading:
		return "loading"
	case FetchLoaded:
		return "loaded"
	case FetchFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FetchTicket identifies an availability request by the date it was issued for.
type FetchTicket struct {
	Date time.Time
}

// ToggleResult describes the outcome of ToggleSlot.
type ToggleResult struct {
	Changed  bool
	Selected bool
	// ScrollIntoView is set when one of the last two hours of the day became selected.
	ScrollIntoView bool
	Entry          SelectionEntry
}

// Controller holds the slot selection of one user across dates.
type Controller struct {
	mu sync.Mutex

	window Window
	price  int

	activeDate time.Time
	raw        map[string]SlotStatus
	fetch      FetchStatus
	fetchErr   error

	selection map[selectionKey]SelectionEntry
}

// NewController creates a controller whose active date is the first day of the window.
func NewController(window Window, price int) *Controller {
	if price <= 0 {
		price = DefaultSlotPrice
	}
	return &Controller{
		window:     window,
		price:      price,
		activeDate: Day(window.Min),
		selection:  make(map[selectionKey]SelectionEntry),
	}
}

func (c *Controller) Window() Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

// SetWindow replaces the navigable range. Existing selections are kept.
func (c *Controller) SetWindow(w Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = w
	if !w.Contains(c.activeDate) {
		c.activeDate = Day(w.Min)
		c.fetch = FetchIdle
		c.raw = nil
	}
}

func (c *Controller) ActiveDate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeDate
}

func (c *Controller) Price() int {
	return c.price
}

// FetchState returns the status of the last availability request and its error, if any.
func (c *Controller) FetchState() (FetchStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetch, c.fetchErr
}

// SetActiveDate switches to date. It is a no-op outside the window.
// On success the availability of the new date is marked as pending.
func (c *Controller) SetActiveDate(date time.Time) (FetchTicket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.window.Contains(date) {
		return FetchTicket{}, false
	}
	c.activeDate = Day(date)
	return c.beginFetchLocked(), true
}

// BeginFetch marks the active date as loading and returns its ticket.
func (c *Controller) BeginFetch() FetchTicket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginFetchLocked()
}

func (c *Controller) beginFetchLocked() FetchTicket {
	c.fetch = FetchLoading
	c.fetchErr = nil
	return FetchTicket{Date: c.activeDate}
}

// ApplyAvailability stores a fetch result if its ticket still matches the active date.
// Selected slots that turned out booked are dropped from the selection and returned.
func (c *Controller) ApplyAvailability(ticket FetchTicket, statuses []SlotAvailability) (applied bool, dropped []SelectionEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !SameDay(ticket.Date, c.activeDate) {
		return false, nil
	}

	raw := make(map[string]SlotStatus, SlotsPerDay)
	for _, d := range dailyCatalog {
		raw[d.Label] = SlotAvailable
	}
	for _, s := range statuses {
		if _, ok := raw[s.Label]; !ok {
			continue
		}
		if s.Status == SlotBooked {
			raw[s.Label] = SlotBooked
		}
	}

	for label, status := range raw {
		if status != SlotBooked {
			continue
		}
		key := keyOf(c.activeDate, label)
		if entry, ok := c.selection[key]; ok {
			delete(c.selection, key)
			dropped = append(dropped, entry)
		}
	}
	sortEntries(dropped)

	c.raw = raw
	c.fetch = FetchLoaded
	c.fetchErr = nil
	return true, dropped
}

// FailAvailability records a failed fetch if its ticket still matches the active date.
func (c *Controller) FailAvailability(ticket FetchTicket, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !SameDay(ticket.Date, c.activeDate) {
		return false
	}
	c.fetch = FetchFailed
	c.fetchErr = err
	return true
}

// Refresh fetches availability for the active date. The lock is not held during the fetch,
// so a result for a date the user has already left is discarded.
func (c *Controller) Refresh(ctx context.Context, source AvailabilitySource) ([]SelectionEntry, error) {
	ticket := c.BeginFetch()

	statuses, err := source.FetchAvailability(ctx, ticket.Date)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrAvailabilityUnknown, err)
		if !c.FailAvailability(ticket, err) {
			return nil, ErrStaleFetch
		}
		return nil, err
	}

	applied, dropped := c.ApplyAvailability(ticket, statuses)
	if !applied {
		return nil, ErrStaleFetch
	}
	return dropped, nil
}

// ComputeSlotViews overlays the selection on the raw availability of the active date.
func (c *Controller) ComputeSlotViews() []SlotView {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]SlotView, 0, SlotsPerDay)
	for _, d := range dailyCatalog {
		views = append(views, SlotView{
			Descriptor: d,
			Price:      c.price,
			Status:     c.statusLocked(d.Label),
		})
	}
	return views
}

func (c *Controller) statusLocked(label string) SlotStatus {
	if c.fetch == FetchFailed || c.raw == nil {
		return SlotUnknown
	}
	status, ok := c.raw[label]
	if !ok {
		return SlotUnknown
	}
	if status == SlotBooked {
		return SlotBooked
	}
	if _, selected := c.selection[keyOf(c.activeDate, label)]; selected {
		return SlotSelected
	}
	return SlotAvailable
}

// ToggleSlot flips the selection of label on the active date.
// Booked and unknown slots are left untouched, as is everything while a fetch is pending.
func (c *Controller) ToggleSlot(label string) ToggleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	desc, ok := DescriptorByLabel(label)
	if !ok || c.fetch != FetchLoaded {
		return ToggleResult{}
	}

	switch c.statusLocked(label) {
	case SlotSelected:
		key := keyOf(c.activeDate, label)
		entry := c.selection[key]
		delete(c.selection, key)
		return ToggleResult{Changed: true, Entry: entry}
	case SlotAvailable:
		entry := SelectionEntry{
			Date:         c.activeDate,
			Hour:         desc.Hour,
			SlotLabel:    desc.Label,
			DisplayRange: desc.DisplayRange,
			Price:        c.price,
		}
		c.selection[keyOf(c.activeDate, label)] = entry
		return ToggleResult{
			Changed:        true,
			Selected:       true,
			ScrollIntoView: desc.Hour >= SlotsPerDay-2,
			Entry:          entry,
		}
	default:
		return ToggleResult{}
	}
}

// TotalPrice sums the prices of all selected slots on every date.
func (c *Controller) TotalPrice() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, e := range c.selection {
		total += e.Price
	}
	return total
}

func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selection)
}

// Entries returns the selection ordered by date, then hour.
func (c *Controller) Entries() []SelectionEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entriesLocked()
}

func (c *Controller) entriesLocked() []SelectionEntry {
	entries := make([]SelectionEntry, 0, len(c.selection))
	for _, e := range c.selection {
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries
}

// Remove drops the selected slot label on date, whichever date is active.
func (c *Controller) Remove(date time.Time, label string) (SelectionEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := keyOf(Day(date), label)
	entry, ok := c.selection[key]
	if !ok {
		return SelectionEntry{}, false
	}
	delete(c.selection, key)
	if SameDay(date, c.activeDate) && c.raw != nil {
		c.raw[label] = SlotBooked
	}
	return entry, true
}

// Clear drops the whole selection.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[selectionKey]SelectionEntry)
}

// Handoff snapshots the selection for the booking summary.
func (c *Controller) Handoff() Handoff {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.entriesLocked()
	total := 0
	for _, e := range entries {
		total += e.Price
	}
	return Handoff{Entries: entries, TotalPrice: total}
}

func sortEntries(entries []SelectionEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !SameDay(entries[i].Date, entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Hour < entries[j].Hour
	})
}

// Handoff is the payload passed from slot selection to the booking summary.
type Handoff struct {
	Entries    []SelectionEntry `json:"entries"`
	TotalPrice int              `json:"total_price"`
}

func (h Handoff) Encode() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode handoff: %w", err)
	}
	return data, nil
}

func DecodeHandoff(data []byte) (Handoff, error) {
	var h Handoff
	if err := json.Unmarshal(data, &h); err != nil {
		return Handoff{}, fmt.Errorf("decode handoff: %w", err)
	}
	return h, nil
}

// Dates returns the distinct calendar days covered by the handoff.
func (h Handoff) Dates() []time.Time {
	var dates []time.Time
	for _, e := range h.Entries {
		if len(dates) == 0 || !SameDay(dates[len(dates)-1], e.Date) {
			dates = append(dates, Day(e.Date))
		}
	}
	return dates
}
