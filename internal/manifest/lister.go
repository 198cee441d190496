package manifest

// ListDependencies returns every declared dependency, runtime section first and
// development section second, each in declaration order.
func ListDependencies(parsed Manifest) []DependencyDescriptor {
	descriptors := make([]DependencyDescriptor, 0, sectionLength(parsed.Dependencies)+sectionLength(parsed.DevDependencies))
	descriptors = appendSection(descriptors, parsed.Dependencies)
	descriptors = appendSection(descriptors, parsed.DevDependencies)
	return descriptors
}

func appendSection(descriptors []DependencyDescriptor, section *DependencySection) []DependencyDescriptor {
	if section == nil {
		return descriptors
	}
	for pair := section.Oldest(); pair != nil; pair = pair.Next() {
		descriptors = append(descriptors, DependencyDescriptor{Name: pair.Key, DeclaredRange: pair.Value})
	}
	return descriptors
}

func sectionLength(section *DependencySection) int {
	if section == nil {
		return 0
	}
	return section.Len()
}
