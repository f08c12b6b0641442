package integration_tests

const avionicsTypesHCL = `
component_type "aircraft" { category = "system" }

component_type "sensor" {
  category = "device"
  feature "out" { direction = "out" }
  flow_spec "src" {
    kind = "source"
    out  = out
  }
}

component_type "display" {
  category = "device"
  feature "inp" { direction = "in" }
  flow_spec "snk" {
    kind = "sink"
    in   = inp
  }
}

component_type "nav" {
  category = "process"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "through" {
    kind = "path"
    in   = inp
    out  = out
  }
}

component_type "worker" {
  category = "thread"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "work" {
    kind = "path"
    in   = inp
    out  = out
  }
}

component_type "calc_fn" {
  category = "subprogram"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "calc" {
    kind = "path"
    in   = inp
    out  = out
  }
}
`

const avionicsImplsHCL = `
component_implementation "worker" "impl" {
  subcomponent "fn" { classifier = calc_fn }
  connection "j1" {
    source      = inp
    destination = fn.inp
  }
  connection "k1" {
    source      = fn.out
    destination = out
  }
  flow_impl "work" {
    segments = [j1, fn.calc, k1]
  }
}

component_implementation "nav" "impl" {
  mode "nominal" { initial = true }
  mode "degraded" {}
  subcomponent "th" { classifier = worker.impl }
  connection "i1" {
    source      = inp
    destination = th.inp
  }
  connection "o1" {
    source      = th.out
    destination = out
  }
  flow_impl "through" {
    segments = [i1, th.work, o1]
    in_modes = [nominal]
  }
}

component_implementation "aircraft" "impl" {
  subcomponent "s" { classifier = sensor }
  subcomponent "p" { classifier = nav.impl }
  subcomponent "d" { classifier = display }
  connection "c1" {
    source      = s.out
    destination = p.inp
  }
  connection "c2" {
    source      = p.out
    destination = d.inp
  }
  end_to_end_flow "sense" {
    segments = [s.src, c1, p.through]
  }
  end_to_end_flow "show" {
    segments = [sense, c2, d.snk]
  }
}

system "aircraft" { implementation = aircraft.impl }
`

const avionicsInstancesHCL = `
system_operation_mode "normal" { modes = [p.nominal] }
system_operation_mode "fallback" { modes = [p.degraded] }

connection_instance "s.out->p.th.fn.inp" {
  source      = s.out
  destination = p.th.fn.inp
  reference { connection = c1 }
  reference {
    context    = p
    connection = i1
  }
  reference {
    context    = p.th
    connection = j1
  }
}

connection_instance "p.th.fn.out->d.inp" {
  source      = p.th.fn.out
  destination = d.inp
  reference {
    context    = p.th
    connection = k1
  }
  reference {
    context    = p
    connection = o1
  }
  reference { connection = c2 }
}
`

func avionicsFiles() map[string]string {
	return map[string]string{
		"types.hcl":               avionicsTypesHCL,
		"impl/aircraft.hcl":       avionicsImplsHCL,
		"instances/semantics.hcl": avionicsInstancesHCL,
	}
}
