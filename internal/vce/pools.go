package vce

import "github.com/stemsi/examplay/internal/model"

// questionPool is one subject area of the synthetic catalogue. The catalogue
// is a closed, statically declared table: pool selection happens purely by
// file-identity hash in poolFor.
type questionPool struct {
	name         string
	passingScore int
	questions    []model.Question
}

var poolTable = []questionPool{
	{
		name:         "cloud architecture",
		passingScore: 70,
		questions: []model.Question{
			{
				ID:   0,
				Type: model.QuestionTypeSingle,
				Text: "What is the primary purpose of infrastructure-as-code templates?",
				Options: []string{
					"Deploy and manage resources as a repeatable group",
					"Handle user authentication only",
					"Provide object storage",
					"Manage virtual networks exclusively",
				},
				CorrectAnswers: []int{0},
				Explanation:    "Templates describe infrastructure declaratively so deployments are consistent and repeatable.",
			},
			{
				ID:   1,
				Type: model.QuestionTypeSingle,
				Text: "Which service category provides managed Kubernetes orchestration?",
				Options: []string{
					"Container instances",
					"Managed Kubernetes service",
					"Serverless functions",
					"Workflow automation",
				},
				CorrectAnswers: []int{1},
				Explanation:    "A managed Kubernetes service handles control-plane upgrades and node scaling for you.",
			},
			{
				ID:   2,
				Type: model.QuestionTypeMultiple,
				Text: "Which load-balancing services support TLS termination? (Select all that apply)",
				Options: []string{
					"Application gateway",
					"Network (L4) load balancer",
					"Global HTTP front door",
					"DNS traffic manager",
				},
				CorrectAnswers: []int{0, 2},
				Explanation:    "Layer-7 gateways and global HTTP entry points terminate TLS; L4 and DNS-based services do not.",
			},
			{
				ID:   3,
				Type: model.QuestionTypeSingle,
				Text: "What is a dedicated private circuit to a cloud provider used for?",
				Options: []string{
					"Public internet connectivity",
					"Private connectivity that bypasses the public internet",
					"Content delivery",
					"DNS resolution",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Dedicated circuits give predictable latency and keep traffic off the public internet.",
			},
			{
				ID:   4,
				Type: model.QuestionTypeSingle,
				Text: "Which service securely stores secrets, keys, and certificates?",
				Options: []string{
					"Object storage",
					"Managed key vault",
					"Monitoring service",
					"Backup service",
				},
				CorrectAnswers: []int{1},
				Explanation:    "A key vault centralizes secret storage with access policies and audit logging.",
			},
			{
				ID:   5,
				Type: model.QuestionTypeMultiple,
				Text: "Which mechanisms improve availability of a regional deployment? (Select all that apply)",
				Options: []string{
					"Availability zones",
					"Resource tags",
					"Cross-zone load balancing",
					"A larger VM size",
				},
				CorrectAnswers: []int{0, 2},
				Explanation:    "Zones isolate failures in separate datacenters; cross-zone balancing routes around a lost zone.",
			},
			{
				ID:   6,
				Type: model.QuestionTypeSingle,
				Text: "What is a policy engine used for in cloud governance?",
				Options: []string{
					"User authentication",
					"Resource compliance and guardrails",
					"Data replication",
					"Traffic routing",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Policy engines evaluate resources against organizational rules and block or flag violations.",
			},
			{
				ID:   7,
				Type: model.QuestionTypeSingle,
				Text: "Which service model hosts web applications without managing servers?",
				Options: []string{
					"Bare-metal hosting",
					"Managed app platform",
					"Block storage",
					"Virtual network peering",
				},
				CorrectAnswers: []int{1},
				Explanation:    "App platforms abstract the OS and runtime so teams deploy code, not machines.",
			},
		},
	},
	{
		name:         "cloud administration",
		passingScore: 70,
		questions: []model.Question{
			{
				ID:   0,
				Type: model.QuestionTypeSingle,
				Text: "What are availability sets used for when running virtual machines?",
				Options: []string{
					"Spreading VMs across fault and update domains",
					"Managing storage accounts",
					"Configuring network security rules",
					"Monitoring application performance",
				},
				CorrectAnswers: []int{0},
				Explanation:    "Availability sets keep VM replicas on separate hardware and maintenance schedules.",
			},
			{
				ID:   1,
				Type: model.QuestionTypeSingle,
				Text: "Which storage tier has the lowest cost for rarely accessed data?",
				Options: []string{
					"Premium SSD",
					"Hot tier",
					"Cool tier",
					"Archive tier",
				},
				CorrectAnswers: []int{3},
				Explanation:    "Archive trades retrieval latency for the lowest per-gigabyte price.",
			},
			{
				ID:   2,
				Type: model.QuestionTypeMultiple,
				Text: "Which replication options protect data against a regional outage? (Select all that apply)",
				Options: []string{
					"Locally redundant storage",
					"Zone-redundant storage",
					"Geo-redundant storage",
					"Read-access geo-redundant storage",
				},
				CorrectAnswers: []int{2, 3},
				Explanation:    "Only geo-redundant variants keep a copy in a paired region.",
			},
			{
				ID:   3,
				Type: model.QuestionTypeSingle,
				Text: "What is role-based access control used for?",
				Options: []string{
					"Network traffic filtering",
					"Managing user permissions on resources",
					"Disk encryption",
					"Cost reporting",
				},
				CorrectAnswers: []int{1},
				Explanation:    "RBAC grants scoped permissions to identities instead of sharing credentials.",
			},
			{
				ID:   4,
				Type: model.QuestionTypeSingle,
				Text: "What do network security groups contain?",
				Options: []string{
					"Load-balancing rules",
					"Allow/deny rules for network traffic",
					"DNS records",
					"VPN tunnel definitions",
				},
				CorrectAnswers: []int{1},
				Explanation:    "NSGs filter inbound and outbound traffic with prioritized security rules.",
			},
			{
				ID:   5,
				Type: model.QuestionTypeMultiple,
				Text: "Which workloads can a managed backup service typically protect? (Select all that apply)",
				Options: []string{
					"Virtual machines",
					"Managed SQL databases",
					"File shares",
					"On-premises servers",
				},
				CorrectAnswers: []int{0, 1, 2, 3},
				Explanation:    "Modern backup services cover IaaS, PaaS databases, file shares, and on-premises agents.",
			},
			{
				ID:   6,
				Type: model.QuestionTypeSingle,
				Text: "What are resource tags primarily used for?",
				Options: []string{
					"Security hardening",
					"Organization and cost tracking",
					"Performance tuning",
					"Traffic routing",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Tags attach metadata like owner or cost center for reporting and chargeback.",
			},
			{
				ID:   7,
				Type: model.QuestionTypeSingle,
				Text: "Which tool automates repetitive operational tasks such as patching?",
				Options: []string{
					"A monitoring dashboard",
					"An automation/runbook service",
					"A CDN",
					"A DNS zone",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Runbook services schedule and execute operational scripts against fleets of resources.",
			},
		},
	},
	{
		name:         "cloud fundamentals",
		passingScore: 65,
		questions: []model.Question{
			{
				ID:   0,
				Type: model.QuestionTypeSingle,
				Text: "What is the main benefit of cloud computing over fixed on-premises capacity?",
				Options: []string{
					"Fixed costs",
					"On-demand scalability",
					"Local data storage",
					"Offline access",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Capacity can grow and shrink with demand instead of being provisioned up front.",
			},
			{
				ID:   1,
				Type: model.QuestionTypeMultiple,
				Text: "Which are essential characteristics of cloud computing? (Select all that apply)",
				Options: []string{
					"On-demand self-service",
					"Broad network access",
					"Resource pooling",
					"Rapid elasticity",
				},
				CorrectAnswers: []int{0, 1, 2, 3},
				Explanation:    "These are the NIST-defined characteristics of the cloud model.",
			},
			{
				ID:   2,
				Type: model.QuestionTypeSingle,
				Text: "What does infrastructure-as-a-service provide?",
				Options: []string{
					"Finished software applications",
					"Development platforms",
					"Virtualized computing infrastructure",
					"Business process outsourcing",
				},
				CorrectAnswers: []int{2},
				Explanation:    "IaaS delivers virtual machines, networks, and storage as rentable building blocks.",
			},
			{
				ID:   3,
				Type: model.QuestionTypeSingle,
				Text: "Which pricing model is most associated with public cloud services?",
				Options: []string{
					"Perpetual licensing",
					"Pay-as-you-go",
					"Fixed annual hardware leases",
					"Per-building pricing",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Consumption-based billing charges only for what is actually used.",
			},
			{
				ID:   4,
				Type: model.QuestionTypeSingle,
				Text: "In the shared responsibility model, who secures the physical datacenter?",
				Options: []string{
					"The customer",
					"The cloud provider",
					"A third-party auditor",
					"The operating system vendor",
				},
				CorrectAnswers: []int{1},
				Explanation:    "Providers own physical security; customers secure their data, identities, and configuration.",
			},
			{
				ID:   5,
				Type: model.QuestionTypeMultiple,
				Text: "Which deployment models combine private and public infrastructure? (Select all that apply)",
				Options: []string{
					"Hybrid cloud",
					"Community cloud",
					"Multi-cloud with on-premises integration",
					"Single-tenant hosting",
				},
				CorrectAnswers: []int{0, 2},
				Explanation:    "Hybrid architectures bridge private capacity with one or more public clouds.",
			},
		},
	},
}
