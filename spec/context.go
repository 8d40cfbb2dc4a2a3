package spec

// Context resolution. Backgrounds are scoped by heading level, not by
// section identity: a background declared at level L stays in effect until
// the next plain section at level L or shallower, regardless of nesting.
// The environment is recomputed per example rather than mutated in place.

const maxLevel = 6

// Resolve computes the effective name→value environment for the example
// held by target: the document is walked in order, background sections
// accumulate bindings at their heading level, plain sections expire every
// binding at their level and deeper before contributing their own. The
// target section's own bindings are merged last. ok is false when target
// is not part of the document.
func (d *Document) Resolve(target *Section) (env map[string]string, ok bool) {
	var frames [maxLevel][]Binding

	d.walk(func(s *Section) {
		if ok {
			return
		}

		switch s.Kind {
		case KindPlain:
			for l := s.Level - 1; l < maxLevel; l++ {
				frames[l] = nil
			}
			frames[s.Level-1] = append(frames[s.Level-1], s.Bindings...)
		case KindBackground:
			frames[s.Level-1] = append(frames[s.Level-1], s.Bindings...)
		case KindExample:
			// Examples neither establish nor expire shared context.
		}

		if s == target {
			env = make(map[string]string)
			for _, frame := range frames {
				for _, b := range frame {
					env[b.Name] = b.Value
				}
			}
			for _, b := range target.Bindings {
				env[b.Name] = b.Value
			}
			ok = true
		}
	})

	if !ok {
		return nil, false
	}
	return env, true
}
