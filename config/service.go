package config

// ServiceConfig holds the GOV.UK service details rendered by the layout.
type ServiceConfig struct {
	Name           string `env:"SERVICE_NAME"    envDefault:"Your service name"`
	Phase          string `env:"SERVICE_PHASE"   envDefault:"beta"`
	URL            string `env:"SERVICE_URL"     envDefault:"/"`
	DepartmentName string `env:"DEPARTMENT_NAME" envDefault:"Legal Aid Agency"`
	DepartmentURL  string `env:"DEPARTMENT_URL"  envDefault:"https://www.gov.uk/government/organisations/legal-aid-agency"`
	ContactEmail   string `env:"CONTACT_EMAIL"`
	ContactPhone   string `env:"CONTACT_PHONE"`
}
