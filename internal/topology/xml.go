package topology

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/vanshika/campusmap/internal/domain"
)

// decodeXML reads the element form of a campus:
//
//	<campus width="1200" height="800">
//	  <building id="LIB" name="Library" x="100" y="200" w="120" h="60"/>
//	  <walkway from="LIB" to="GYM"><via x="150" y="200"/></walkway>
//	  <room tag="L101" name="Reading Room" type="room" parent="LIB"/>
//	  <schedule room="L101" day="Mon" start="08:00" end="09:30" subject="..."/>
//	</campus>
func decodeXML(data []byte) (domain.Campus, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return domain.Campus{}, err
	}
	root := doc.SelectElement("campus")
	if root == nil {
		return domain.Campus{}, errors.New("missing <campus> root element")
	}

	var campus domain.Campus
	var err error
	if campus.Canvas.Width, err = optionalFloat(root, "width"); err != nil {
		return domain.Campus{}, err
	}
	if campus.Canvas.Height, err = optionalFloat(root, "height"); err != nil {
		return domain.Campus{}, err
	}

	for _, el := range root.SelectElements("building") {
		b, err := xmlBuilding(el)
		if err != nil {
			return domain.Campus{}, err
		}
		campus.Buildings = append(campus.Buildings, b)
	}

	for _, el := range root.SelectElements("walkway") {
		w := domain.Walkway{
			From: el.SelectAttrValue("from", ""),
			To:   el.SelectAttrValue("to", ""),
		}
		for _, via := range el.SelectElements("via") {
			x, err := requiredFloat(via, "x")
			if err != nil {
				return domain.Campus{}, err
			}
			y, err := requiredFloat(via, "y")
			if err != nil {
				return domain.Campus{}, err
			}
			w.Via = append(w.Via, domain.Coord{x, y})
		}
		campus.Walkways = append(campus.Walkways, w)
	}

	for _, el := range root.SelectElements("room") {
		campus.Rooms = append(campus.Rooms, domain.Room{
			Tag:    el.SelectAttrValue("tag", ""),
			Name:   el.SelectAttrValue("name", ""),
			Type:   el.SelectAttrValue("type", ""),
			Parent: el.SelectAttrValue("parent", ""),
		})
	}

	for _, el := range root.SelectElements("schedule") {
		if campus.Schedules == nil {
			campus.Schedules = make(map[string][]domain.ScheduleSlot)
		}
		tag := el.SelectAttrValue("room", "")
		campus.Schedules[tag] = append(campus.Schedules[tag], domain.ScheduleSlot{
			Day:     el.SelectAttrValue("day", ""),
			Start:   el.SelectAttrValue("start", ""),
			End:     el.SelectAttrValue("end", ""),
			Subject: el.SelectAttrValue("subject", ""),
			Section: el.SelectAttrValue("section", ""),
			Teacher: el.SelectAttrValue("teacher", ""),
		})
	}

	return campus, nil
}

func xmlBuilding(el *etree.Element) (domain.Building, error) {
	b := domain.Building{
		ID:   el.SelectAttrValue("id", ""),
		Name: el.SelectAttrValue("name", ""),
		Img:  el.SelectAttrValue("img", ""),
	}
	var err error
	if b.X, err = requiredFloat(el, "x"); err != nil {
		return b, err
	}
	if b.Y, err = requiredFloat(el, "y"); err != nil {
		return b, err
	}
	if attr := el.SelectAttr("w"); attr != nil {
		w, err := strconv.ParseFloat(attr.Value, 64)
		if err != nil {
			return b, fmt.Errorf("building %q attribute w: %w", b.ID, err)
		}
		b.W = &w
	}
	if attr := el.SelectAttr("h"); attr != nil {
		h, err := strconv.ParseFloat(attr.Value, 64)
		if err != nil {
			return b, fmt.Errorf("building %q attribute h: %w", b.ID, err)
		}
		b.H = &h
	}
	return b, nil
}

func requiredFloat(el *etree.Element, name string) (float64, error) {
	attr := el.SelectAttr(name)
	if attr == nil {
		return 0, fmt.Errorf("<%s> missing attribute %s", el.Tag, name)
	}
	v, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %s: %w", el.Tag, name, err)
	}
	return v, nil
}

func optionalFloat(el *etree.Element, name string) (float64, error) {
	if el.SelectAttr(name) == nil {
		return 0, nil
	}
	return requiredFloat(el, name)
}
