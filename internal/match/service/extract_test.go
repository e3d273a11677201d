package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-match/internal/match/model"
)

func TestExtractUnits(t *testing.T) {
	e := newEngine(t)

	cases := []struct {
		name   string
		volume *float64
		weight *float64
		fat    *float64
		qty    *int
	}{
		{name: "Молоко 930мл 3.2%", volume: ptr(930.0), fat: ptr(3.2)},
		{name: "Сыр 1кг", weight: ptr(1000.0)},
		{name: "Бананы"},
		{name: "Кефир 2,5% 900 мл", volume: ptr(900.0), fat: ptr(2.5)},
		{name: "Молоко 1 литр", volume: ptr(1000.0)},
		{name: "Вода x6 0.5л", volume: ptr(500.0), qty: ptr(6)},
		{name: "Печенье 200гр", weight: ptr(200.0)},
		{name: "Масло сливочное 180г.", weight: ptr(180.0)},
		{name: "Творог 5% 200г", weight: ptr(200.0), fat: ptr(5.0)},
		{name: "Яйца куриные С0 10 шт", qty: ptr(10)},
		{name: "Йогурт 4 шт по 125 г", weight: ptr(125.0), qty: ptr(4)},
		{name: "Сок 1,5 л", volume: ptr(1500.0)},
		{name: "Молоко 2х500мл", volume: ptr(500.0), qty: ptr(2)},
		{name: "Вода 6 x 1.5л", volume: ptr(1500.0), qty: ptr(6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := e.Extract(tc.name)
			assert.Equal(t, tc.volume, a.VolumeML, "volume")
			assert.Equal(t, tc.weight, a.WeightG, "weight")
			assert.Equal(t, tc.fat, a.FatPercent, "fat")
			assert.Equal(t, tc.qty, a.Quantity, "quantity")
		})
	}
}

func TestExtractMillilitersBeforeLiters(t *testing.T) {
	e := newEngine(t)
	// «мл» найден: литры не пробуем
	a := e.Extract("Сок 200 мл, 1 л упаковка")
	require.NotNil(t, a.VolumeML)
	assert.Equal(t, 200.0, *a.VolumeML)
}

func TestExtractUnitNeedsWordEnd(t *testing.T) {
	e := newEngine(t)
	// «5 лимонов»: не литры, «2 года», не граммы
	a := e.Extract("Набор 5 лимонов 2 года")
	assert.Nil(t, a.VolumeML)
	assert.Nil(t, a.WeightG)
}

func TestExtractBrand(t *testing.T) {
	e := newEngine(t)

	cases := map[string]string{
		"Молоко Parmalat 3.5% 1л":         "Parmalat",
		"Вода Bon Aqua негазированная":    "Bon Aqua",
		"Coca-Cola Zero 0.5л":             "Coca-Cola Zero",
		"Простоквашино Молоко 3.2% 930мл": "Простоквашино",
		"Йогурт Чудо 2.5%":                "Чудо",
		"Сок Добрый яблочный 1л":          "Добрый",
		"Сыр Premium Российский":          "",
		"Бананы":                          "",
		"Сок Добрый, 1л":                  "Добрый",
		"Йогурт (Чудо) 2.5%":              "Чудо",
		// латиница важнее справочника
		"Молоко Простоквашино Milk 1л": "Milk",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, e.Extract(name).Brand)
		})
	}
}

func TestExtractBrandLongestLatin(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, "Head Shoulders", e.Extract("Шампунь Dove & Head Shoulders 400мл").Brand)
}

func TestExtractType(t *testing.T) {
	e := newEngine(t)

	cases := map[string]string{
		"Молоко Простоквашино 3.2% 930мл":     "молоко",
		"Сметана Простоквашино 15% 300г":      "сметана",
		"Сырок глазированный Б.Ю.Александров": "сырок",
		"Сыр Российский 45%":                  "сыр",
		"Молоко сгущенное цельное":            "сгущенка",
		"Мороженое пломбир":                   "мороженое",
		"Яйца куриные С0 10 шт":               "яйца",
		"Рис круглозерный":                    "рис",
		"Рис, 900г":                           "рис",
		"Сахар, песок 1кг":                    "сахар",
		"Соль (поваренная)":                   "соль",
		"Ирис тянучка":                        "ирис",
		"Лимоны":                              "лимоны",
		"Корм для кошек с курицей":            "корм для животных",
		// нет в справочнике, первое значимое слово от 4 символов
		"Бублики с маком": "бублики",
		"Для 100г ананас": "ананас",
		"123":             "",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, e.Extract(name).ProductType)
		})
	}
}

func TestExtractEmpty(t *testing.T) {
	e := newEngine(t)
	assert.True(t, e.Extract("").Empty())
	assert.True(t, e.Extract("   ").Empty())
	assert.True(t, e.Extract("123").Empty())
	assert.False(t, e.Extract("Бананы").Empty())
}

func TestExtractDeterministic(t *testing.T) {
	e := newEngine(t)
	names := []string{"Молоко Простоквашино 3.2% 930мл", "Coca-Cola 0.5л", "Сыр 1кг", ""}
	for _, n := range names {
		assert.Equal(t, e.Extract(n), e.Extract(n))
	}
	var zero model.Attributes
	assert.Equal(t, zero, e.Extract(""))
}
