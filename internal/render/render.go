// Package render turns cart snapshots into display fragments and maps
// cart UI events back onto the store.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const fragment = `<span class="cart-count">{{.Count}}</span>
<div class="cart-items">
{{- if not .Items}}
<p class="empty-cart">Your cart is empty</p>
{{- else}}
{{- range .Items}}
<div class="cart-item">
<div class="cart-item-info">
<h4>{{.Name}}</h4>
<div class="cart-item-price">{{.Price}} x {{.Quantity}}</div>
</div>
<div class="cart-item-actions">
<button class="quantity-btn minus" data-id="{{.ID}}" data-type="{{.Type}}">-</button>
<span class="quantity">{{.Quantity}}</span>
<button class="quantity-btn plus" data-id="{{.ID}}" data-type="{{.Type}}">+</button>
<button class="remove-btn" data-id="{{.ID}}" data-type="{{.Type}}">&times;</button>
</div>
</div>
{{- end}}
{{- end}}
</div>
<div class="cart-total"><span class="currency">{{.Total}}</span></div>
`

type Renderer struct {
	symbol  string
	lang    language.Tag
	group   string
	point   string
	tmpl    *template.Template
	onError func(error)
}

type Option func(*Renderer)

// WithSymbol sets the currency symbol printed before amounts.
func WithSymbol(symbol string) Option {
	return func(r *Renderer) {
		r.symbol = symbol
	}
}

// WithLanguage picks the digit grouping and decimal separators.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) {
		r.lang = tag
	}
}

// WithErrorHandler receives render failures from Attach.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.onError = fn
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		symbol:  "R",
		lang:    language.English,
		tmpl:    template.Must(template.New("cart").Parse(fragment)),
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.group, r.point = separators(message.NewPrinter(r.lang))
	return r
}

// separators reads the grouping and decimal separators off a sample printed
// in the printer's language.
func separators(p *message.Printer) (group, point string) {
	sample := p.Sprintf("%.1f", 1000.5)
	i := strings.Index(sample, "000")
	if !strings.HasPrefix(sample, "1") || i < 1 || !strings.HasSuffix(sample, "5") || i+3 > len(sample)-1 {
		return ",", "."
	}
	return sample[1:i], sample[i+3 : len(sample)-1]
}

// FormatAmount prints amount with two decimals, grouped digits and the symbol.
// The digits come from the decimal itself so large totals stay exact.
func (r *Renderer) FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(r.symbol)
	b.WriteString(" ")
	b.WriteString(sign)
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(r.group)
		}
		b.WriteRune(d)
	}
	b.WriteString(r.point)
	b.WriteString(frac)

	return b.String()
}

type itemView struct {
	ID       string
	Type     string
	Name     string
	Price    string
	Quantity int
}

type cartView struct {
	Count int
	Total string
	Items []itemView
}

func (r *Renderer) view(snap cart.Snapshot) cartView {
	v := cartView{
		Count: snap.Count,
		Total: r.FormatAmount(snap.Total),
	}
	for _, item := range snap.Items {
		v.Items = append(v.Items, itemView{
			ID:       item.ID,
			Type:     item.Type,
			Name:     item.Name,
			Price:    r.FormatAmount(item.Price),
			Quantity: item.Quantity,
		})
	}
	return v
}

// HTML writes the cart side panel fragment.
func (r *Renderer) HTML(w io.Writer, snap cart.Snapshot) error {
	if err := r.tmpl.Execute(w, r.view(snap)); err != nil {
		return fmt.Errorf("tmpl.Execute: %w", err)
	}
	return nil
}

// Text writes an aligned table for terminals.
func (r *Renderer) Text(w io.Writer, snap cart.Snapshot) error {
	if len(snap.Items) == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			item.Type, item.ID, item.Name, r.FormatAmount(item.Price), item.Quantity, r.FormatAmount(item.Subtotal()))
	}
	fmt.Fprintf(tw, "\t\t\t\t%d\t%s\n", snap.Count, r.FormatAmount(snap.Total))

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tw.Flush: %w", err)
	}
	return nil
}

// View writes one rendering of a snapshot, such as Renderer.HTML or Renderer.Text.
type View func(io.Writer, cart.Snapshot) error

// Attach re-renders the cart into w with view after every change and returns
// the detach function. Render errors go to the WithErrorHandler callback.
func (r *Renderer) Attach(store *cart.Store, w io.Writer, view View) func() {
	return store.Subscribe(func(snap cart.Snapshot) {
		if err := view(w, snap); err != nil {
			r.onError(fmt.Errorf("render: %w", err))
		}
	})
}
