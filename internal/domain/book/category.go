package book

// categories 固定的图书分类
var categories = []string{
	"Programming Languages",
	"Data Structures & Algorithms",
	"Operating Systems",
	"Artificial Intelligence & Machine Learning",
	"Databases",
	"Cybersecurity",
	"Software Engineering",
	"Digital Electronics",
	"Signal Processing",
	"Communication Systems",
	"VLSI Design",
	"Embedded Systems",
	"Circuit Theory",
	"Power Systems",
	"Control Systems",
	"Electrical Machines",
	"Renewable Energy",
	"Thermodynamics",
	"Fluid Mechanics",
	"Manufacturing Processes",
	"Robotics",
	"CAD/CAM",
	"Structural Engineering",
	"Transportation Engineering",
	"Surveying",
	"Construction Management",
	"Environmental Engineering",
	"Web Development",
	"Mobile App Development",
	"Cloud Computing",
	"Data Analytics",
	"Human-Computer Interaction",
	"Discrete Mathematics",
	"Engineering Mathematics",
	"Physics",
	"Chemistry",
	"Statistics",
	"Communication Skills",
	"Professional Ethics",
	"Economics for Engineers",
	"Psychology",
	"Soft Skills",
	"Reference Books",
	"Project Reports / Theses",
	"Journals & Magazines",
	"E-Books & Online Resources",
	"Competitive Exam Materials (GATE, GRE, etc.)",
	"Research Papers",
	"Previous Year Question Papers",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		m[c] = struct{}{}
	}
	return m
}()

// Categories 返回分类列表的副本
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsValidCategory 分类必须完全匹配(区分大小写)
func IsValidCategory(c string) bool {
	_, ok := categorySet[c]
	return ok
}
