package catalog

// Default returns the built-in catalog of supported systems. Used when no
// external catalog source is configured.
func Default() *Catalog {
	c, err := New(defaultSystems())
	if err != nil {
		// The built-in table is fixed at compile time; a construction
		// failure here is a programming error.
		panic(err)
	}
	return c
}

func defaultSystems() []System {
	pct := func(min, max float64) Range { return Range{Min: min, Max: max, Unit: "%"} }
	m3h := func(min, max float64) Range { return Range{Min: min, Max: max, Unit: "m3/h"} }

	return []System{
		{
			Type:           "RZ-104-11",
			LampCount:      1,
			LampPowerWatts: 320,
			Limits:         Ranges{Flow: m3h(10, 500), UVT: pct(40, 98)},
		},
		{
			Type:           "RZ-104-12",
			LampCount:      2,
			LampPowerWatts: 320,
			Limits:         Ranges{Flow: m3h(10, 550), UVT: pct(40, 98)},
		},
		{
			Type:           "RZ-163-11",
			LampCount:      1,
			LampPowerWatts: 1000,
			Limits:         Ranges{Flow: m3h(50, 1000), UVT: pct(50, 98)},
		},
		{
			Type:           "RZ-163-12",
			LampCount:      2,
			LampPowerWatts: 1000,
			Limits:         Ranges{Flow: m3h(50, 1200), UVT: pct(50, 98)},
		},
		{
			Type:           "RZ-163-13",
			LampCount:      3,
			LampPowerWatts: 1000,
			Limits:         Ranges{Flow: m3h(50, 1500), UVT: pct(50, 98)},
		},
		{
			Type:           "RZ-300-12",
			LampCount:      2,
			LampPowerWatts: 2000,
			Limits:         Ranges{Flow: m3h(100, 3000), UVT: pct(55, 98)},
		},
		{
			Type:           "RZM-200-5",
			LampCount:      5,
			LampPowerWatts: 200,
			Limits:         Ranges{Flow: m3h(20, 800), UVT: pct(45, 98)},
		},
		{
			Type:           "RZM-350-8",
			LampCount:      8,
			LampPowerWatts: 350,
			Limits:         Ranges{Flow: m3h(30, 1400), UVT: pct(45, 98)},
		},
		{
			Type:           "RZMW-350-11",
			LampCount:      11,
			LampPowerWatts: 350,
			Limits:         Ranges{Flow: m3h(50, 2000), UVT: pct(40, 98)},
		},
		{
			Type:           "RZMW-500-20",
			LampCount:      20,
			LampPowerWatts: 500,
			Limits:         Ranges{Flow: m3h(100, 4000), UVT: pct(40, 98)},
		},
	}
}
