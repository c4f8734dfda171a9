package tool

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	menux "github.com/hotlanelabs/drivethru/agent/menu"
)

// Infos declares the four operations the model may request, in the shape
// the chat model binds via WithTools. The lookup-before-add protocol is
// enforced by the tool descriptions and the system prompt; the add
// operation re-validates everything regardless.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: contractx.ToolLookupMenuItem,
			Desc: "Look up a menu item by name before adding it. Returns the exact item with its available modifiers, or candidate suggestions when the name is ambiguous or unknown.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Customer-worded item name to search for", Required: true},
			}),
		},
		{
			Name: contractx.ToolAddItemToOrder,
			Desc: "Add a looked-up menu item to the order. Use the exact item_id returned by lookup_menu_item. Fails when the item is unknown, a modifier is not offered for it, or the quantity is not positive.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_id":       {Type: schema.String, Desc: "Catalog item id from lookup_menu_item", Required: true},
				"item_name":     {Type: schema.String, Desc: "Item name as listed on the menu", Required: true},
				"category_name": {Type: schema.String, Desc: "Menu category of the item", Enum: categoryEnum(), Required: true},
				"quantity":      {Type: schema.Integer, Desc: "Number of units, at least 1", Required: true},
				"size":          {Type: schema.String, Desc: "Serving size; omit for the item default", Enum: sizeEnum()},
				"modifiers": {
					Type:     schema.Array,
					Desc:     "Modifier names or ids from the item's available modifiers",
					ElemInfo: &schema.ParameterInfo{Type: schema.String, Desc: "Modifier name or id"},
				},
			}),
		},
		{
			Name:        contractx.ToolGetCurrentOrder,
			Desc:        "Read the current order: every line with quantity, size, and modifiers.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        contractx.ToolFinalizeOrder,
			Desc:        "Confirm the order and end the conversation. Call only after the customer has confirmed they are done ordering.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}

func sizeEnum() []string {
	return []string{
		string(menux.SizeSnack),
		string(menux.SizeSmall),
		string(menux.SizeMedium),
		string(menux.SizeLarge),
		string(menux.SizeRegular),
	}
}

func categoryEnum() []string {
	return []string{
		string(menux.CategoryBreakfast),
		string(menux.CategoryBeefPork),
		string(menux.CategoryChickenFish),
		string(menux.CategorySalads),
		string(menux.CategorySnacksSides),
		string(menux.CategoryDesserts),
		string(menux.CategoryBeverages),
		string(menux.CategoryCoffeeTea),
		string(menux.CategorySmoothiesShakes),
	}
}
