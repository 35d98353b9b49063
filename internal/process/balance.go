package process

import (
	"fmt"
	"math"
	"sort"
)

// Component describes a chemical species participating in the balance.
type Component struct {
	Name            string  `json:"name"`
	MolecularWeight float64 `json:"molecular_weight"`
	Phase           string  `json:"phase"`
	Density         float64 `json:"density,omitempty"`
}

// Stream is a process stream with component mass flows in kg/h.
type Stream struct {
	Name        string             `json:"name"`
	Components  map[string]float64 `json:"components"`
	Temperature float64            `json:"temperature"`
	Pressure    float64            `json:"pressure"`
}

// TotalFlow returns the total mass flow of the stream in kg/h.
func (s Stream) TotalFlow() float64 {
	var total float64
	for _, flow := range s.Components {
		total += flow
	}
	return total
}

// Reaction describes a single reaction by its stoichiometric coefficients
// (negative for reactants, positive for products), fractional conversion of
// the limiting reactant, and selectivity to the desired product.
type Reaction struct {
	Name          string             `json:"name"`
	Stoichiometry map[string]float64 `json:"stoichiometry"`
	Conversion    float64            `json:"conversion"`
	Selectivity   float64            `json:"selectivity"`
}

// Balance accumulates components, streams, and reactions for a process and
// performs material balance calculations over them.
type Balance struct {
	components map[string]Component
	streams    map[string]Stream
	reactions  map[string]Reaction
}

func NewBalance() *Balance {
	return &Balance{
		components: make(map[string]Component),
		streams:    make(map[string]Stream),
		reactions:  make(map[string]Reaction),
	}
}

func (b *Balance) AddComponent(c Component) {
	if c.Phase == "" {
		c.Phase = "liquid"
	}
	b.components[c.Name] = c
}

func (b *Balance) AddStream(s Stream) error {
	if s.Name == "" {
		return fmt.Errorf("stream name required")
	}
	if s.Temperature == 0 {
		s.Temperature = 25.0
	}
	if s.Pressure == 0 {
		s.Pressure = 1.0
	}
	if s.Components == nil {
		s.Components = make(map[string]float64)
	}
	b.streams[s.Name] = s
	return nil
}

func (b *Balance) AddReaction(r Reaction) error {
	if r.Name == "" {
		return fmt.Errorf("reaction name required")
	}
	if r.Selectivity == 0 {
		r.Selectivity = 1.0
	}
	if r.Conversion < 0 || r.Conversion > 1 {
		return fmt.Errorf("reaction %q: conversion must be between 0 and 1", r.Name)
	}
	if r.Selectivity < 0 || r.Selectivity > 1 {
		return fmt.Errorf("reaction %q: selectivity must be between 0 and 1", r.Name)
	}
	b.reactions[r.Name] = r
	return nil
}

// Stream returns a registered stream by name.
func (b *Balance) Stream(name string) (Stream, bool) {
	s, ok := b.streams[name]
	return s, ok
}

// ReactorResult captures the outlet composition after applying a reaction to
// an inlet stream.
type ReactorResult struct {
	Components         map[string]float64 `json:"components"`
	ConversionAchieved float64            `json:"conversion_achieved"`
	LimitingReactant   string             `json:"limiting_reactant,omitempty"`
	Extent             float64            `json:"extent_of_reaction"`
}

// ReactorOutlet computes the reactor outlet composition for the named inlet
// stream and reaction. The limiting reactant is the one with the smallest
// feed-to-coefficient ratio; the extent is scaled by conversion and
// selectivity and no outlet flow is allowed to go negative.
func (b *Balance) ReactorOutlet(inletStream, reactionName string) (ReactorResult, error) {
	inlet, ok := b.streams[inletStream]
	if !ok {
		return ReactorResult{}, fmt.Errorf("inlet stream %q not found", inletStream)
	}
	reaction, ok := b.reactions[reactionName]
	if !ok {
		return ReactorResult{}, fmt.Errorf("reaction %q not found", reactionName)
	}

	feed := make(map[string]float64, len(inlet.Components))
	for name, flow := range inlet.Components {
		feed[name] = flow
	}

	limiting := ""
	minExtent := math.Inf(1)
	for component, coeff := range reaction.Stoichiometry {
		if coeff >= 0 {
			continue
		}
		flow, present := feed[component]
		if !present {
			continue
		}
		if possible := flow / math.Abs(coeff); possible < minExtent {
			minExtent = possible
			limiting = component
		}
	}
	if limiting == "" {
		return ReactorResult{Components: feed}, nil
	}

	extent := minExtent * reaction.Conversion * reaction.Selectivity
	outlet := make(map[string]float64, len(feed))
	for name, flow := range feed {
		outlet[name] = flow
	}
	for component, coeff := range reaction.Stoichiometry {
		outlet[component] = math.Max(0, outlet[component]+coeff*extent)
	}

	var achieved float64
	if feed[limiting] > 0 {
		achieved = (feed[limiting] - outlet[limiting]) / feed[limiting]
	}
	return ReactorResult{
		Components:         outlet,
		ConversionAchieved: achieved,
		LimitingReactant:   limiting,
		Extent:             extent,
	}, nil
}

// SeparatorOutlets splits the named inlet stream into outlet streams according
// to per-component split fractions keyed by outlet name.
func (b *Balance) SeparatorOutlets(inletStream string, splitFractions map[string]map[string]float64) (map[string]Stream, error) {
	inlet, ok := b.streams[inletStream]
	if !ok {
		return nil, fmt.Errorf("inlet stream %q not found", inletStream)
	}
	outlets := make(map[string]Stream, len(splitFractions))
	for outletName, splits := range splitFractions {
		components := make(map[string]float64, len(inlet.Components))
		for component, flow := range inlet.Components {
			components[component] = flow * splits[component]
		}
		outlets[outletName] = Stream{
			Name:        outletName,
			Components:  components,
			Temperature: inlet.Temperature,
			Pressure:    inlet.Pressure,
		}
	}
	return outlets, nil
}

// ComponentConsumption is the annual consumption of a single component.
type ComponentConsumption struct {
	HourlyFlowKgH float64 `json:"hourly_flow_kg_h"`
	AnnualKg      float64 `json:"annual_consumption_kg"`
	AnnualTonnes  float64 `json:"annual_consumption_tons"`
}

// AnnualConsumption scales a stream's hourly component flows to annual totals.
func (b *Balance) AnnualConsumption(streamName string, operatingHours int) (map[string]ComponentConsumption, error) {
	stream, ok := b.streams[streamName]
	if !ok {
		return nil, fmt.Errorf("stream %q not found", streamName)
	}
	if operatingHours <= 0 {
		return nil, fmt.Errorf("operating hours must be positive")
	}
	out := make(map[string]ComponentConsumption, len(stream.Components))
	for component, flow := range stream.Components {
		annual := flow * float64(operatingHours)
		out[component] = ComponentConsumption{
			HourlyFlowKgH: flow,
			AnnualKg:      annual,
			AnnualTonnes:  annual / 1000,
		}
	}
	return out, nil
}

// CheckResult reports overall mass closure between inlet and outlet streams.
type CheckResult struct {
	TotalInletKgH    float64 `json:"total_inlet_kg_h"`
	TotalOutletKgH   float64 `json:"total_outlet_kg_h"`
	ImbalanceKgH     float64 `json:"imbalance_kg_h"`
	RelativeErrorPct float64 `json:"relative_error_percent"`
	Balanced         bool    `json:"is_balanced"`
	TolerancePct     float64 `json:"tolerance_percent"`
}

// Check verifies the overall mass balance across the named inlet and outlet
// streams. Unknown stream names contribute nothing, matching the forgiving
// behaviour expected when a flowsheet is only partially defined.
func (b *Balance) Check(inletStreams, outletStreams []string, tolerance float64) CheckResult {
	if tolerance <= 0 {
		tolerance = 1e-6
	}
	var totalIn, totalOut float64
	for _, name := range inletStreams {
		if s, ok := b.streams[name]; ok {
			totalIn += s.TotalFlow()
		}
	}
	for _, name := range outletStreams {
		if s, ok := b.streams[name]; ok {
			totalOut += s.TotalFlow()
		}
	}
	imbalance := totalIn - totalOut
	var relative float64
	if totalIn > 0 {
		relative = math.Abs(imbalance) / totalIn
	}
	return CheckResult{
		TotalInletKgH:    totalIn,
		TotalOutletKgH:   totalOut,
		ImbalanceKgH:     imbalance,
		RelativeErrorPct: relative * 100,
		Balanced:         relative <= tolerance,
		TolerancePct:     tolerance * 100,
	}
}

// YieldResult reports reaction conversion and yield between two streams.
type YieldResult struct {
	ConversionPct       float64 `json:"conversion_percent"`
	YieldPct            float64 `json:"yield_percent"`
	ReactantConsumedKgH float64 `json:"reactant_consumed_kg_h"`
	ProductFormedKgH    float64 `json:"product_formed_kg_h"`
	TheoreticalKgH      float64 `json:"theoretical_product_kg_h"`
	KeyReactant         string  `json:"key_reactant"`
	KeyProduct          string  `json:"key_product"`
}

// YieldAndConversion computes conversion of the key reactant and yield of the
// key product between a feed and product stream for the named reaction.
func (b *Balance) YieldAndConversion(reactionName, feedStream, productStream string) (YieldResult, error) {
	reaction, ok := b.reactions[reactionName]
	if !ok {
		return YieldResult{}, fmt.Errorf("reaction %q not found", reactionName)
	}
	keyReactant, keyProduct := "", ""
	for _, name := range sortedKeys(reaction.Stoichiometry) {
		coeff := reaction.Stoichiometry[name]
		if coeff < 0 && keyReactant == "" {
			keyReactant = name
		}
		if coeff > 0 && keyProduct == "" {
			keyProduct = name
		}
	}
	if keyReactant == "" || keyProduct == "" {
		return YieldResult{}, fmt.Errorf("reaction %q must have both reactants and products", reactionName)
	}

	feed := b.streams[feedStream].Components
	product := b.streams[productStream].Components

	reactantIn := feed[keyReactant]
	reactantOut := product[keyReactant]
	var conversion float64
	if reactantIn > 0 {
		conversion = (reactantIn - reactantOut) / reactantIn
	}
	productMade := product[keyProduct]
	theoretical := (reactantIn - reactantOut) * math.Abs(reaction.Stoichiometry[keyProduct]/reaction.Stoichiometry[keyReactant])
	var yieldFraction float64
	if theoretical > 0 {
		yieldFraction = productMade / theoretical
	}
	return YieldResult{
		ConversionPct:       conversion * 100,
		YieldPct:            yieldFraction * 100,
		ReactantConsumedKgH: reactantIn - reactantOut,
		ProductFormedKgH:    productMade,
		TheoreticalKgH:      theoretical,
		KeyReactant:         keyReactant,
		KeyProduct:          keyProduct,
	}, nil
}

// TableRow is one stream's line in the material balance table.
type TableRow struct {
	Stream      string             `json:"stream"`
	Flows       map[string]float64 `json:"flows_kg_h"`
	TotalKgH    float64            `json:"total_kg_h"`
	Temperature float64            `json:"temperature_c"`
	Pressure    float64            `json:"pressure_bar"`
}

// Table builds the material balance table across all registered streams, with
// every component column present on every row.
func (b *Balance) Table() []TableRow {
	all := make(map[string]struct{})
	for _, stream := range b.streams {
		for component := range stream.Components {
			all[component] = struct{}{}
		}
	}
	columns := make([]string, 0, len(all))
	for component := range all {
		columns = append(columns, component)
	}
	sort.Strings(columns)

	rows := make([]TableRow, 0, len(b.streams))
	for _, name := range sortedStreamNames(b.streams) {
		stream := b.streams[name]
		flows := make(map[string]float64, len(columns))
		for _, component := range columns {
			flows[component] = stream.Components[component]
		}
		rows = append(rows, TableRow{
			Stream:      name,
			Flows:       flows,
			TotalKgH:    stream.TotalFlow(),
			Temperature: stream.Temperature,
			Pressure:    stream.Pressure,
		})
	}
	return rows
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStreamNames(m map[string]Stream) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
