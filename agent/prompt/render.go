package prompt

import (
	"strings"

	menux "github.com/hotlanelabs/drivethru/agent/menu"
	orderx "github.com/hotlanelabs/drivethru/agent/order"
)

// Placeholders the orchestrator template exposes. Anything else in the
// template text passes through untouched.
const (
	placeholderLocationName    = "{{location_name}}"
	placeholderLocationAddress = "{{location_address}}"
	placeholderMenuItems       = "{{menu_items}}"
	placeholderCurrentOrder    = "{{current_order}}"
)

// Render fills the template placeholders from the catalog and the live
// order. The same template is re-rendered before every model call so the
// prompt always shows the order as it stands now.
func Render(template string, m *menux.Menu, o *orderx.Order) string {
	var locationName, locationAddress, menuItems string
	if m != nil {
		locationName = m.Location.Name
		locationAddress = m.Location.FullAddress()
		menuItems = m.RenderText()
	}

	currentOrder := "(empty)"
	if o != nil {
		currentOrder = o.RenderText()
	}

	r := strings.NewReplacer(
		placeholderLocationName, locationName,
		placeholderLocationAddress, locationAddress,
		placeholderMenuItems, menuItems,
		placeholderCurrentOrder, currentOrder,
	)
	return r.Replace(template)
}
