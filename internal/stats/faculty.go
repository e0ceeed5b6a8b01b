package stats

import (
	"sort"

	"github.com/Veraticus/timetable/internal/model"
)

// FacultyNode is a college or department with its distinct faculty count.
type FacultyNode struct {
	Key      string
	Label    string
	Count    int
	Children []FacultyNode
}

// FacultyTree counts distinct instructors per college and per department.
type FacultyTree struct {
	Total    int
	Colleges []FacultyNode
}

// BuildFacultyTree counts distinct faculty. An instructor is identified by
// instructor_code when present, otherwise by name. Rows missing a college,
// department or instructor are ignored. Colleges and departments are ordered
// by count, largest first, then by label. The tree is empty, never nil, when
// no row qualifies.
func BuildFacultyTree(rows []model.Row) *FacultyTree {
	all := make(StringSet)
	collegeLabels := make(map[string]string)
	departmentLabels := make(map[string]map[string]string)
	byCollege := make(map[string]StringSet)
	byDepartment := make(map[string]map[string]StringSet)

	for _, r := range rows {
		collegeRaw := r.Text(model.FieldCollege)
		departmentRaw := r.Text(model.FieldDepartment)
		instructor := r.Text(model.FieldInstructor)
		if collegeRaw == "" || departmentRaw == "" || instructor == "" {
			continue
		}

		id := NormalizeKey(r.Text(model.FieldInstructorCode))
		if id == "" {
			id = NormalizeKey(instructor)
		}
		college := NormalizeKey(collegeRaw)
		department := NormalizeKey(departmentRaw)

		setLabel(collegeLabels, college, collegeRaw)
		setLabel(child(departmentLabels, college), department, departmentRaw)

		all.Add(id)
		courseSet(byCollege, college).Add(id)
		courseSet(child(byDepartment, college), department).Add(id)
	}

	tree := &FacultyTree{Total: len(all), Colleges: []FacultyNode{}}
	for college, ids := range byCollege {
		if len(ids) == 0 {
			continue
		}
		node := FacultyNode{
			Key:      college,
			Label:    labelOf(collegeLabels, college),
			Count:    len(ids),
			Children: []FacultyNode{},
		}
		for department, deptIDs := range byDepartment[college] {
			if len(deptIDs) == 0 {
				continue
			}
			node.Children = append(node.Children, FacultyNode{
				Key:   department,
				Label: labelOf(departmentLabels[college], department),
				Count: len(deptIDs),
			})
		}
		sortNodes(node.Children)
		tree.Colleges = append(tree.Colleges, node)
	}
	sortNodes(tree.Colleges)
	return tree
}

func sortNodes(nodes []FacultyNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Count != nodes[j].Count {
			return nodes[i].Count > nodes[j].Count
		}
		return labelLess(nodes[i].Label, nodes[j].Label)
	})
}
