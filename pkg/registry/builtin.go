// Built-in STIX 2.0 and 2.1 type seeding. Property lists cover the declared
// shape needed for dispatch and completeness checks: name, required flag,
// and whether a value is itself resolved recursively. Property-level value
// validation is a separate concern and not encoded here.
package registry

import "github.com/mesh-intelligence/stixkit/pkg/types"

// Shorthand constructors for property specs.

func scalar(name string) types.PropertySpec {
	return types.PropertySpec{Name: name, Kind: types.KindScalar}
}

func requiredScalar(name string) types.PropertySpec {
	return types.PropertySpec{Name: name, Required: true, Kind: types.KindScalar}
}

func nestedObject(name string, required bool, ns types.Namespace) types.PropertySpec {
	return types.PropertySpec{Name: name, Required: required, Kind: types.KindObject, Namespace: ns}
}

func nestedList(name string, required bool, ns types.Namespace) types.PropertySpec {
	return types.PropertySpec{Name: name, Required: required, Kind: types.KindList, Namespace: ns}
}

func nestedMap(name string, required bool, ns types.Namespace) types.PropertySpec {
	return types.PropertySpec{Name: name, Required: required, Kind: types.KindMap, Namespace: ns}
}

// commonCore returns the properties shared by every core object of the
// given version. STIX 2.1 adds spec_version, confidence, and lang on top of
// the 2.0 set.
func commonCore(version types.SpecVersion) []types.PropertySpec {
	props := []types.PropertySpec{
		requiredScalar("type"),
		requiredScalar("id"),
		scalar("created_by_ref"),
		requiredScalar("created"),
		requiredScalar("modified"),
		scalar("revoked"),
		scalar("labels"),
		scalar("external_references"),
		scalar("object_marking_refs"),
		scalar("granular_markings"),
	}
	if version == types.Version21 {
		props = append(props,
			scalar("spec_version"),
			scalar("confidence"),
			scalar("lang"),
			scalar("extensions"),
		)
	}
	return props
}

// coreSchema builds a core-object schema from the version's common
// properties plus the type-specific ones.
func coreSchema(version types.SpecVersion, name string, extra ...types.PropertySpec) *types.ObjectSchema {
	return &types.ObjectSchema{
		TypeName:   name,
		Properties: append(commonCore(version), extra...),
	}
}

// seedBuiltin registers every built-in type for both versions.
func seedBuiltin(r *Registry) {
	for _, v := range types.Versions() {
		seedCore(r, v)
		seedObservables(r, v)
		seedMarkings(r, v)
		seedExtensions(r, v)
	}
}

// seedCore registers the bundle, SDO, and SRO schemas of one version.
func seedCore(r *Registry, v types.SpecVersion) {
	// Bundle carries no common core properties. 2.0 bundles declare their
	// version inline; 2.1 dropped the marker and the objects property is
	// optional.
	bundle := &types.ObjectSchema{
		TypeName: "bundle",
		Properties: []types.PropertySpec{
			requiredScalar("type"),
			requiredScalar("id"),
			nestedList("objects", v == types.Version20, types.NamespaceObjects),
		},
	}
	if v == types.Version20 {
		bundle.Properties = append(bundle.Properties, requiredScalar("spec_version"))
	}
	mustRegister(r, types.NamespaceObjects, v, bundle)

	// marking-definition resolves its definition payload against the
	// markings namespace, keyed by definition_type.
	md := &types.ObjectSchema{
		TypeName: "marking-definition",
		Properties: []types.PropertySpec{
			requiredScalar("type"),
			requiredScalar("id"),
			requiredScalar("created"),
			scalar("created_by_ref"),
			scalar("external_references"),
			scalar("object_marking_refs"),
			scalar("granular_markings"),
			requiredScalar("definition_type"),
			nestedObject("definition", true, types.NamespaceMarkings),
		},
	}
	if v == types.Version21 {
		md.Properties = append(md.Properties, scalar("spec_version"), scalar("name"))
	}
	mustRegister(r, types.NamespaceObjects, v, md)

	// observed-data's objects collection is the recursion point into the
	// observables namespace. 2.1 made the inline form optional in favor of
	// object_refs.
	od := coreSchema(v, "observed-data",
		requiredScalar("first_observed"),
		requiredScalar("last_observed"),
		requiredScalar("number_observed"),
		nestedMap("objects", v == types.Version20, types.NamespaceObservables),
	)
	if v == types.Version21 {
		od.Properties = append(od.Properties, scalar("object_refs"))
	}
	mustRegister(r, types.NamespaceObjects, v, od)

	// Scalar-only SDOs shared by both versions.
	shared := []*types.ObjectSchema{
		coreSchema(v, "attack-pattern", requiredScalar("name"), scalar("description"), scalar("kill_chain_phases"), scalar("aliases")),
		coreSchema(v, "campaign", requiredScalar("name"), scalar("description"), scalar("aliases"), scalar("first_seen"), scalar("last_seen"), scalar("objective")),
		coreSchema(v, "course-of-action", requiredScalar("name"), scalar("description"), scalar("action")),
		coreSchema(v, "identity", requiredScalar("name"), scalar("description"), scalar("roles"), scalar("identity_class"), scalar("sectors"), scalar("contact_information")),
		coreSchema(v, "intrusion-set", requiredScalar("name"), scalar("description"), scalar("aliases"), scalar("first_seen"), scalar("last_seen"), scalar("goals"), scalar("resource_level"), scalar("primary_motivation"), scalar("secondary_motivations")),
		coreSchema(v, "report", requiredScalar("name"), scalar("description"), requiredScalar("published"), requiredScalar("object_refs"), scalar("report_types")),
		coreSchema(v, "threat-actor", requiredScalar("name"), scalar("description"), scalar("aliases"), scalar("roles"), scalar("goals"), scalar("sophistication"), scalar("resource_level"), scalar("primary_motivation"), scalar("secondary_motivations"), scalar("personal_motivations"), scalar("threat_actor_types"), scalar("first_seen"), scalar("last_seen")),
		coreSchema(v, "tool", requiredScalar("name"), scalar("description"), scalar("tool_version"), scalar("kill_chain_phases"), scalar("tool_types"), scalar("aliases")),
		coreSchema(v, "vulnerability", requiredScalar("name"), scalar("description")),
		coreSchema(v, "relationship", requiredScalar("relationship_type"), scalar("description"), requiredScalar("source_ref"), requiredScalar("target_ref"), scalar("start_time"), scalar("stop_time")),
		coreSchema(v, "sighting", requiredScalar("sighting_of_ref"), scalar("description"), scalar("first_seen"), scalar("last_seen"), scalar("count"), scalar("observed_data_refs"), scalar("where_sighted_refs"), scalar("summary")),
	}
	for _, s := range shared {
		mustRegister(r, types.NamespaceObjects, v, s)
	}

	// indicator and malware changed requirements between revisions.
	switch v {
	case types.Version20:
		mustRegister(r, types.NamespaceObjects, v, coreSchema(v, "indicator",
			scalar("name"), scalar("description"),
			requiredScalar("pattern"), requiredScalar("valid_from"), scalar("valid_until"),
			scalar("kill_chain_phases")))
		mustRegister(r, types.NamespaceObjects, v, coreSchema(v, "malware",
			requiredScalar("name"), scalar("description"), scalar("kill_chain_phases")))
	case types.Version21:
		mustRegister(r, types.NamespaceObjects, v, coreSchema(v, "indicator",
			scalar("name"), scalar("description"), scalar("indicator_types"),
			requiredScalar("pattern"), requiredScalar("pattern_type"), scalar("pattern_version"),
			requiredScalar("valid_from"), scalar("valid_until"), scalar("kill_chain_phases")))
		mustRegister(r, types.NamespaceObjects, v, coreSchema(v, "malware",
			scalar("name"), scalar("description"), scalar("malware_types"),
			requiredScalar("is_family"), scalar("aliases"), scalar("kill_chain_phases"),
			scalar("first_seen"), scalar("last_seen"), scalar("operating_system_refs"),
			scalar("architecture_execution_envs"), scalar("implementation_languages"),
			scalar("capabilities"), scalar("sample_refs")))
	}

	// Types introduced in 2.1.
	if v == types.Version21 {
		later := []*types.ObjectSchema{
			coreSchema(v, "grouping", scalar("name"), scalar("description"), requiredScalar("context"), requiredScalar("object_refs")),
			coreSchema(v, "incident", requiredScalar("name"), scalar("description")),
			coreSchema(v, "infrastructure", requiredScalar("name"), scalar("description"), scalar("infrastructure_types"), scalar("aliases"), scalar("kill_chain_phases"), scalar("first_seen"), scalar("last_seen")),
			coreSchema(v, "location", scalar("name"), scalar("description"), scalar("latitude"), scalar("longitude"), scalar("precision"), scalar("region"), scalar("country"), scalar("administrative_area"), scalar("city"), scalar("street_address"), scalar("postal_code")),
			coreSchema(v, "malware-analysis", requiredScalar("product"), scalar("version"), scalar("host_vm_ref"), scalar("operating_system_ref"), scalar("installed_software_refs"), scalar("configuration_version"), scalar("modules"), scalar("analysis_engine_version"), scalar("analysis_definition_version"), scalar("submitted"), scalar("analysis_started"), scalar("analysis_ended"), scalar("result_name"), scalar("result"), scalar("analysis_sco_refs"), scalar("sample_ref")),
			coreSchema(v, "note", scalar("abstract"), requiredScalar("content"), scalar("authors"), requiredScalar("object_refs")),
			coreSchema(v, "opinion", scalar("explanation"), scalar("authors"), requiredScalar("opinion"), requiredScalar("object_refs")),
			coreSchema(v, "language-content", requiredScalar("object_ref"), scalar("object_modified"), requiredScalar("contents")),
		}
		for _, s := range later {
			mustRegister(r, types.NamespaceObjects, v, s)
		}
	}
}

// observableSchema builds an observable schema. Every observable carries an
// extensions map resolved against the extensions namespace; 2.1 observables
// additionally carry id and spec_version.
func observableSchema(v types.SpecVersion, name string, extra ...types.PropertySpec) *types.ObjectSchema {
	props := []types.PropertySpec{
		requiredScalar("type"),
		nestedMap("extensions", false, types.NamespaceExtensions),
	}
	if v == types.Version21 {
		props = append(props, scalar("id"), scalar("spec_version"), scalar("object_marking_refs"), scalar("granular_markings"), scalar("defanged"))
	}
	return &types.ObjectSchema{TypeName: name, Properties: append(props, extra...)}
}

// seedObservables registers the observable sub-object schemas of one version.
func seedObservables(r *Registry, v types.SpecVersion) {
	schemas := []*types.ObjectSchema{
		observableSchema(v, "artifact", scalar("mime_type"), scalar("payload_bin"), scalar("url"), scalar("hashes"), scalar("encryption_algorithm"), scalar("decryption_key")),
		observableSchema(v, "autonomous-system", requiredScalar("number"), scalar("name"), scalar("rir")),
		observableSchema(v, "directory", requiredScalar("path"), scalar("path_enc"), scalar("ctime"), scalar("mtime"), scalar("atime"), scalar("contains_refs")),
		observableSchema(v, "domain-name", requiredScalar("value"), scalar("resolves_to_refs")),
		observableSchema(v, "email-addr", requiredScalar("value"), scalar("display_name"), scalar("belongs_to_ref")),
		observableSchema(v, "email-message", requiredScalar("is_multipart"), scalar("date"), scalar("content_type"), scalar("from_ref"), scalar("sender_ref"), scalar("to_refs"), scalar("cc_refs"), scalar("bcc_refs"), scalar("subject"), scalar("received_lines"), scalar("additional_header_fields"), scalar("body"), scalar("body_multipart"), scalar("raw_email_ref")),
		observableSchema(v, "file", scalar("hashes"), scalar("size"), scalar("name"), scalar("name_enc"), scalar("magic_number_hex"), scalar("mime_type"), scalar("ctime"), scalar("mtime"), scalar("atime"), scalar("parent_directory_ref"), scalar("contains_refs"), scalar("content_ref")),
		observableSchema(v, "ipv4-addr", requiredScalar("value"), scalar("resolves_to_refs"), scalar("belongs_to_refs")),
		observableSchema(v, "ipv6-addr", requiredScalar("value"), scalar("resolves_to_refs"), scalar("belongs_to_refs")),
		observableSchema(v, "mac-addr", requiredScalar("value")),
		observableSchema(v, "mutex", requiredScalar("name")),
		observableSchema(v, "network-traffic", scalar("start"), scalar("end"), scalar("is_active"), scalar("src_ref"), scalar("dst_ref"), scalar("src_port"), scalar("dst_port"), requiredScalar("protocols"), scalar("src_byte_count"), scalar("dst_byte_count"), scalar("src_packets"), scalar("dst_packets"), scalar("ipfix"), scalar("src_payload_ref"), scalar("dst_payload_ref"), scalar("encapsulates_refs"), scalar("encapsulated_by_ref")),
		observableSchema(v, "process", scalar("is_hidden"), scalar("pid"), scalar("created_time"), scalar("cwd"), scalar("command_line"), scalar("environment_variables"), scalar("opened_connection_refs"), scalar("creator_user_ref"), scalar("image_ref"), scalar("parent_ref"), scalar("child_refs")),
		observableSchema(v, "software", requiredScalar("name"), scalar("cpe"), scalar("swid"), scalar("languages"), scalar("vendor"), scalar("version")),
		observableSchema(v, "url", requiredScalar("value")),
		observableSchema(v, "user-account", scalar("user_id"), scalar("credential"), scalar("account_login"), scalar("account_type"), scalar("display_name"), scalar("is_service_account"), scalar("is_privileged"), scalar("can_escalate_privs"), scalar("is_disabled"), scalar("account_created"), scalar("account_expires"), scalar("credential_last_changed"), scalar("account_first_login"), scalar("account_last_login")),
		observableSchema(v, "windows-registry-key", scalar("key"), scalar("values"), scalar("modified_time"), scalar("creator_user_ref"), scalar("number_of_subkeys")),
		observableSchema(v, "x509-certificate", scalar("is_self_signed"), scalar("hashes"), scalar("version"), scalar("serial_number"), scalar("signature_algorithm"), scalar("issuer"), scalar("validity_not_before"), scalar("validity_not_after"), scalar("subject"), scalar("subject_public_key_algorithm"), scalar("subject_public_key_modulus"), scalar("subject_public_key_exponent"), scalar("x509_v3_extensions")),
	}
	for _, s := range schemas {
		mustRegister(r, types.NamespaceObservables, v, s)
	}
}

// seedMarkings registers the marking-definition payload types. These records
// carry no type field of their own; the resolver keys them by the parent's
// definition_type.
func seedMarkings(r *Registry, v types.SpecVersion) {
	mustRegister(r, types.NamespaceMarkings, v, &types.ObjectSchema{
		TypeName:   "statement",
		Properties: []types.PropertySpec{requiredScalar("statement")},
	})
	mustRegister(r, types.NamespaceMarkings, v, &types.ObjectSchema{
		TypeName:   "tlp",
		Properties: []types.PropertySpec{requiredScalar("tlp")},
	})
}

// seedExtensions registers the predefined observable extensions. Extension
// records carry no type field; the resolver keys them by the extensions
// map key.
func seedExtensions(r *Registry, v types.SpecVersion) {
	schemas := []*types.ObjectSchema{
		{TypeName: "archive-ext", Properties: []types.PropertySpec{requiredScalar("contains_refs"), scalar("comment"), scalar("version")}},
		{TypeName: "ntfs-ext", Properties: []types.PropertySpec{scalar("sid"), scalar("alternate_data_streams")}},
		{TypeName: "pdf-ext", Properties: []types.PropertySpec{scalar("version"), scalar("is_optimized"), scalar("document_info_dict"), scalar("pdfid0"), scalar("pdfid1")}},
		{TypeName: "raster-image-ext", Properties: []types.PropertySpec{scalar("image_height"), scalar("image_width"), scalar("bits_per_pixel"), scalar("exif_tags")}},
		{TypeName: "windows-pebinary-ext", Properties: []types.PropertySpec{requiredScalar("pe_type"), scalar("imphash"), scalar("machine_hex"), scalar("number_of_sections"), scalar("time_date_stamp"), scalar("pointer_to_symbol_table_hex"), scalar("number_of_symbols"), scalar("size_of_optional_header"), scalar("characteristics_hex"), scalar("file_header_hashes"), scalar("optional_header"), scalar("sections")}},
		{TypeName: "http-request-ext", Properties: []types.PropertySpec{requiredScalar("request_method"), requiredScalar("request_value"), scalar("request_version"), scalar("request_header"), scalar("message_body_length"), scalar("message_body_data_ref")}},
		{TypeName: "icmp-ext", Properties: []types.PropertySpec{requiredScalar("icmp_type_hex"), requiredScalar("icmp_code_hex")}},
		{TypeName: "socket-ext", Properties: []types.PropertySpec{requiredScalar("address_family"), scalar("is_blocking"), scalar("is_listening"), scalar("options"), scalar("socket_type"), scalar("socket_descriptor"), scalar("socket_handle")}},
		{TypeName: "tcp-ext", Properties: []types.PropertySpec{scalar("src_flags_hex"), scalar("dst_flags_hex")}},
		{TypeName: "unix-account-ext", Properties: []types.PropertySpec{scalar("gid"), scalar("groups"), scalar("home_dir"), scalar("shell")}},
		{TypeName: "windows-process-ext", Properties: []types.PropertySpec{scalar("aslr_enabled"), scalar("dep_enabled"), scalar("priority"), scalar("owner_sid"), scalar("window_title"), scalar("startup_info"), scalar("integrity_level")}},
		{TypeName: "windows-service-ext", Properties: []types.PropertySpec{scalar("service_name"), scalar("descriptions"), scalar("display_name"), scalar("group_name"), scalar("start_type"), scalar("service_dll_refs"), scalar("service_type"), scalar("service_status")}},
	}
	for _, s := range schemas {
		mustRegister(r, types.NamespaceExtensions, v, s)
	}
}
