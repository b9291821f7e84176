package catalog

// Builtin returns the stock task list used when no database is configured.
func Builtin() *Catalog {
	c, err := New(builtinEntries)
	if err != nil {
		panic(err)
	}
	return c
}

var builtinEntries = []Entry{
	{ID: "flux-coil", Title: "Prime the flux coil", Action: "Flux coil"},
	{ID: "plasma-vent", Title: "Open the plasma vents", Action: "Plasma vents"},
	{ID: "gyro-spin", Title: "Spin up the gyroscope", Action: "Gyroscope"},
	{ID: "helium-purge", Title: "Purge the helium tanks", Action: "Helium purge"},
	{ID: "ion-thruster", Title: "Fire the ion thrusters", Action: "Ion thrusters"},
	{ID: "nav-beacon", Title: "Align the nav beacon", Action: "Nav beacon"},
	{ID: "heat-shield", Title: "Deploy the heat shield", Action: "Heat shield"},
	{ID: "cargo-clamp", Title: "Release the cargo clamps", Action: "Cargo clamps"},
	{ID: "airlock-seal", Title: "Seal the airlock", Action: "Airlock seal"},
	{ID: "solar-array", Title: "Unfold the solar array", Action: "Solar array"},
	{ID: "fuel-mix", Title: "Enrich the fuel mixture", Action: "Fuel mixer"},
	{ID: "comm-dish", Title: "Rotate the comm dish", Action: "Comm dish"},
	{ID: "coolant-loop", Title: "Flush the coolant loop", Action: "Coolant flush"},
	{ID: "docking-ring", Title: "Engage the docking ring", Action: "Docking ring"},
	{ID: "oxygen-mix", Title: "Balance the oxygen mix", Action: "Oxygen mixer"},
	{ID: "grav-plates", Title: "Calibrate the grav plates", Action: "Grav plates"},
	{ID: "warp-core", Title: "Stabilize the warp core", Action: "Warp core"},
	{ID: "landing-gear", Title: "Retract the landing gear", Action: "Landing gear"},
	{ID: "shield-gen", Title: "Recharge the shield generator", Action: "Shield generator"},
	{ID: "tractor-beam", Title: "Disengage the tractor beam", Action: "Tractor beam"},
	{ID: "antenna-ext", Title: "Extend the long-range antenna", Action: "Antenna"},
	{ID: "bilge-pump", Title: "Run the bilge pumps", Action: "Bilge pumps"},
	{ID: "reactor-rod", Title: "Insert the reactor rods", Action: "Reactor rods"},
	{ID: "stabilizer", Title: "Trim the stabilizer fins", Action: "Stabilizers"},
	{ID: "escape-pod", Title: "Arm the escape pods", Action: "Escape pods"},
	{ID: "mess-hall", Title: "Defrost the mess hall rations", Action: "Ration defroster"},
	{ID: "hull-patch", Title: "Patch the hull breach", Action: "Hull patcher"},
	{ID: "scanner-sweep", Title: "Sweep the proximity scanner", Action: "Proximity scanner"},
	{ID: "ballast-dump", Title: "Dump the ballast", Action: "Ballast dump"},
	{ID: "capacitor", Title: "Drain the capacitor bank", Action: "Capacitor bank"},
	{ID: "telemetry", Title: "Re-sync the telemetry feed", Action: "Telemetry sync"},
	{ID: "hatch-lock", Title: "Lock the maintenance hatch", Action: "Hatch lock"},
	{ID: "fire-damper", Title: "Close the fire dampers", Action: "Fire dampers"},
	{ID: "turbine", Title: "Throttle the turbine", Action: "Turbine throttle"},
	{ID: "waste-cycle", Title: "Cycle the waste recycler", Action: "Waste recycler"},
	{ID: "beacon-ping", Title: "Ping the distress beacon", Action: "Distress beacon"},
	{ID: "lens-focus", Title: "Focus the observation lens", Action: "Observation lens"},
	{ID: "brake-chute", Title: "Pack the brake chute", Action: "Brake chute"},
	{ID: "intake-fan", Title: "Reverse the intake fans", Action: "Intake fans"},
	{ID: "pressure-eq", Title: "Equalize cabin pressure", Action: "Pressure valve"},
}
