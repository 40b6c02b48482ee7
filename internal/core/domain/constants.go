package domain

import "errors"

var (
	ErrConflict         = errors.New("message id already exists")
	ErrNotFound         = errors.New("item not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrRenderFailure    = errors.New("failed to render response")
	ErrUnknownAction    = errors.New("unknown action")
)

// SeedStoreNames guarantees non-empty store suggestions for new users.
var SeedStoreNames = []string{
	"Pack'n'Save",
	"Countdown",
	"Bunnings",
	"Mitre 10",
	"The Warehouse",
	"Kmart",
	"Farmers",
}

// SeedItems guarantees non-empty item suggestions for new users.
var SeedItems = []string{
	"milk 2L",
	"loaf of bread",
	"12 eggs",
	"cheese 1kg",
	"butter",
	"chocolate",
	"coffee",
	"tea",
	"sugar",
	"flour",
	"oil",
	"x2 can of tomatoes",
	"fresh tomatoes",
	"cherry tomatoes",
	"brown onions",
	"red onions",
	"potatoes",
	"carrots",
	"general fruit and vege",
	"chicken breast 500g",
	"beef mince 500g",
	"pork mine 500g",
	"white fish",
	"hoki crumbed fish",
	"orange juice (pulp)",
	"orange juice (no pulp)",
	"toilet paper",
	"paper towels",
	"dishwashing liquid",
	"dishwasher powder",
	"washing powder",
	"napisan powder",
	"bleach",
	"toothpaste",
	"toothbrush",
	"shampoo",
	"conditioner",
	"soap",
	"deodorant",
	"razors",
	"shaving cream",
	"hair gel",
	"band-aids",
	"painkillers",
	"antibiotics",
	"vitamins",
	"protein powder",
	"banana",
	"apple",
	"orange",
	"kiwi fruit",
	"lemon",
	"lime",
	"avocado",
	"cucumber",
	"lettuce",
	"capsicum",
	"zucchini",
	"broccoli",
	"cauliflower",
	"asparagus",
	"corn",
	"mushrooms",
	"spinach",
	"tomato",
}
